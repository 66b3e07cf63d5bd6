// Command jobs runs one leave batch job and exits.
//
//	jobs -job escalate
//	jobs -job rollover -year 2025
//	jobs -job accrue -year 2026 -month 3
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-elms/internal/app"
	"go-elms/internal/bootstrap"
	"go-elms/internal/config"
	"go-elms/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	job := flag.String("job", "", "job to run: escalate, rollover or accrue")
	year := flag.Int("year", 0, "rollover source year or accrual year (default: derived from now)")
	month := flag.Int("month", 0, "accrual month 1-12 (default: current month)")
	flag.Parse()

	if *job == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := app.RunJob(ctx, cfg, *job, app.JobParams{Year: *year, Month: *month})
	if err != nil {
		logger.Fatal("run job failed", zap.String("job", *job), zap.Error(err))
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
