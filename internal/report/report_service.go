package report

import (
	"context"
	"fmt"
	"time"

	reporterrors "go-elms/internal/report/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	dateLayout   = "2006-01-02"
	leavesSheet  = "Leaves"
	maxRangeDays = 366
)

var leaveHeaders = []string{
	"Reference", "Employee", "Email", "Leave Type", "Start", "End", "Days", "Status", "Awaiting", "Submitted At",
}

var leaveColWidths = []float64{18, 24, 28, 18, 12, 12, 6, 11, 20, 20}

type Service interface {
	LeavesWorkbook(ctx context.Context, from, to string) (*excelize.File, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

// parseRange defaults to the current calendar year when both ends are empty.
func (s *service) parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" && to == "" {
		y := s.now().Year()
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC), nil
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidRange
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil || end.Before(start) {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidRange
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, reporterrors.ErrRangeTooLarge
	}
	return start, end, nil
}

func (s *service) LeavesWorkbook(ctx context.Context, from, to string) (*excelize.File, error) {
	start, end, err := s.parseRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.LeavesInRange(ctx, start, end)
	if err != nil {
		s.logger.Error("load leave report rows failed",
			zap.String("from", start.Format(dateLayout)),
			zap.String("to", end.Format(dateLayout)),
			zap.Error(err),
		)
		return nil, err
	}

	f := excelize.NewFile()
	if err := writeLeaves(f, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	s.logger.Info("leave report generated",
		zap.String("from", start.Format(dateLayout)),
		zap.String("to", end.Format(dateLayout)),
		zap.Int("rows", len(rows)),
	)
	return f, nil
}

func writeLeaves(f *excelize.File, rows []LeaveRow) error {
	if err := f.SetSheetName("Sheet1", leavesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return err
	}

	for i, h := range leaveHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(leavesSheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(leavesSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for i, w := range leaveColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(leavesSheet, col, col, w); err != nil {
			return err
		}
	}

	for i, r := range rows {
		awaiting := ""
		if r.CurrentRole != nil {
			awaiting = *r.CurrentRole
		}
		values := []any{
			r.Reference,
			r.UserName,
			r.UserEmail,
			r.LeaveTypeName,
			r.StartDate.Format(dateLayout),
			r.EndDate.Format(dateLayout),
			r.Days,
			r.Status,
			awaiting,
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(leavesSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.SetPanes(leavesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
