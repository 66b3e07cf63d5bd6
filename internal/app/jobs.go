package app

import (
	"context"
	"fmt"
	"time"

	"go-elms/internal/config"
	"go-elms/internal/domain"

	"go.uber.org/zap"
)

const (
	JobEscalate = "escalate"
	JobRollover = "rollover"
	JobAccrue   = "accrue"
)

// JobParams carries the flags of one batch run. Zero values default to the
// current time.
type JobParams struct {
	Year  int
	Month int
	Now   time.Time
}

// RunJob executes one batch job and returns its summary. Every job is safe
// to rerun.
func RunJob(ctx context.Context, cfg *config.Config, name string, p JobParams) (any, error) {
	logger := zap.L().Named("app.jobs")

	if p.Now.IsZero() {
		p.Now = time.Now().UTC()
	}

	in, err := connect(cfg, false)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	m, err := buildModules(cfg, in.db, in.gormDB, nil)
	if err != nil {
		return nil, err
	}

	logger.Info("job started", zap.String("job", name))
	system := domain.SystemActor()

	var out any
	switch name {
	case JobEscalate:
		out, err = m.leaves.EscalateStale(ctx, p.Now)
	case JobRollover:
		year := p.Year
		if year == 0 {
			year = p.Now.Year() - 1
		}
		out, err = m.balances.Rollover(ctx, system, year)
	case JobAccrue:
		year, month := p.Year, p.Month
		if year == 0 {
			year = p.Now.Year()
		}
		if month == 0 {
			month = int(p.Now.Month())
		}
		out, err = m.balances.Accrue(ctx, system, year, month)
	default:
		return nil, fmt.Errorf("unknown job %q", name)
	}
	if err != nil {
		logger.Error("job failed", zap.String("job", name), zap.Error(err))
		return nil, err
	}

	logger.Info("job finished", zap.String("job", name), zap.Any("result", out))
	return out, nil
}
