// Command batch scores every interaction in a spreadsheet and writes an
// .xlsx report next to it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"interaction-quality-go/internal/actionable"
	"interaction-quality-go/internal/aggregator"
	"interaction-quality-go/internal/config"
	"interaction-quality-go/internal/dataset"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/pipeline"
	"interaction-quality-go/internal/processor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}

	in := flag.String("in", cfg.DatasetPath, "input .xlsx with transcripts or recording links")
	out := flag.String("out", "", "output report (default: <in>_scores.xlsx)")
	workers := flag.Int("workers", cfg.BatchWorkers, "concurrent workers")
	flag.Parse()

	log := logger.NewWith(cfg.Environment, cfg.LogLevel, os.Stderr)
	if *in == "" {
		log.Fatal("no input: pass -in or set DATASET_PATH")
	}
	if *out == "" {
		*out = strings.TrimSuffix(*in, ".xlsx") + "_scores.xlsx"
	}

	engine, err := processor.FromConfig(cfg, log, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to build engine")
	}
	records, err := dataset.Load(*in, log)
	if err != nil {
		log.WithError(err).Fatal("failed to load dataset")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	results := pipeline.Run(ctx, records, engine.ScoreRecord, pipeline.Options{
		Workers: *workers,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})

	if err := dataset.WriteReport(*out, results); err != nil {
		log.WithError(err).Fatal("failed to write report")
	}
	ins := aggregator.Aggregate(results)
	log.WithField("out", *out).WithField("failed", ins.Failed).Info("report written")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Insight    aggregator.Insight    `json:"insight"`
		ActionCard actionable.ActionCard `json:"action_card"`
	}{ins, actionable.Generate(ins)}); err != nil {
		log.WithError(err).Error("failed to print summary")
	}
}
