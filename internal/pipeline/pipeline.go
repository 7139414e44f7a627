// Package pipeline scores dataset records with a bounded worker pool.
package pipeline

import (
	"context"
	"sync"
	"time"

	"interaction-quality-go/internal/dataset"
	"interaction-quality-go/internal/logger"
)

// ScoreFunc scores one record. It reports failures in the returned result.
type ScoreFunc func(ctx context.Context, rec dataset.Record) dataset.Result

type Options struct {
	Workers int
	// Timeout bounds each record. Zero means no per-record limit.
	Timeout time.Duration
	Logger  *logger.Logger
}

// Run scores records with opts.Workers goroutines and returns one result per
// record in input order. Once ctx is done, records not yet started are
// returned with ctx's error.
func Run(ctx context.Context, records []dataset.Record, score ScoreFunc, opts Options) []dataset.Result {
	log := logger.OrNew(opts.Logger).Component("pipeline")
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}

	results := make([]dataset.Result, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = process(ctx, records[i], score, opts.Timeout)
			}
		}()
	}

	start := time.Now()
	next := 0
feed:
	for ; next < len(records); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(records); i++ {
		results[i] = dataset.Result{Record: records[i], Err: ctx.Err().Error()}
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	log.WithFields(map[string]interface{}{
		"records":     len(records),
		"failed":      failed,
		"workers":     workers,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("batch finished")
	return results
}

func process(ctx context.Context, rec dataset.Record, score ScoreFunc, timeout time.Duration) dataset.Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	res := score(ctx, rec)
	if !res.Failed() && ctx.Err() != nil {
		res.Err = ctx.Err().Error()
	}
	return res
}
