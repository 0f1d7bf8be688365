package runner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"pos-workshop/internal/query"
)

// Workload is one repeatable request pattern against the query layer.
type Workload interface {
	Name() string
	// Setup runs once before the clock starts, e.g. to pick target ids.
	Setup(ctx context.Context, repo query.Repository) error
	// Execute performs a single operation. rng belongs to the calling worker.
	Execute(ctx context.Context, repo query.Repository, rng *rand.Rand) error
}

type Result struct {
	Workload       string        `json:"workload"`
	Concurrency    int           `json:"concurrency"`
	Operations     int64         `json:"operations"`
	Errors         int64         `json:"errors"`
	Throughput     float64       `json:"throughput"`
	P50Latency     time.Duration `json:"p50_latency"`
	P95Latency     time.Duration `json:"p95_latency"`
	P99Latency     time.Duration `json:"p99_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
	AverageLatency time.Duration `json:"average_latency"`
	ErrorRate      float64       `json:"error_rate"`
	TotalTime      time.Duration `json:"total_time"`
}

// Latencies are tracked in microseconds up to one minute.
const (
	minLatency  = 1
	maxLatency  = int64(time.Minute / time.Microsecond)
	sigFigures  = 3
	maxLoggedOp = 5
)

// Run drives the workload from concurrency workers until duration elapses
// or ctx is cancelled. Worker i seeds its rng with seed+i.
func Run(ctx context.Context, repo query.Repository, workload Workload, concurrency int, duration time.Duration, seed int64, logger *zap.Logger) (*Result, error) {
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", duration)
	}

	if err := workload.Setup(ctx, repo); err != nil {
		return nil, fmt.Errorf("failed to set up %s: %w", workload.Name(), err)
	}

	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var (
		wg         sync.WaitGroup
		ops        atomic.Int64
		errs       atomic.Int64
		histograms = make([]*hdrhistogram.Histogram, concurrency)
	)
	start := time.Now()

	for i := 0; i < concurrency; i++ {
		histograms[i] = hdrhistogram.New(minLatency, maxLatency, sigFigures)
		wg.Add(1)
		go func(h *hdrhistogram.Histogram, rng *rand.Rand) {
			defer wg.Done()
			for runCtx.Err() == nil {
				opStart := time.Now()
				err := workload.Execute(runCtx, repo, rng)
				elapsed := time.Since(opStart)

				// Operations cut short by the deadline are not counted.
				if err != nil && runCtx.Err() != nil {
					return
				}
				ops.Add(1)
				if err != nil {
					if n := errs.Add(1); n <= maxLoggedOp {
						logger.Warn("operation failed", zap.String("workload", workload.Name()), zap.Error(err))
					}
					continue
				}
				_ = h.RecordValue(clamp(elapsed.Microseconds()))
			}
		}(histograms[i], rand.New(rand.NewSource(seed+int64(i))))
	}
	wg.Wait()
	total := time.Since(start)

	merged := hdrhistogram.New(minLatency, maxLatency, sigFigures)
	for _, h := range histograms {
		merged.Merge(h)
	}

	result := &Result{
		Workload:       workload.Name(),
		Concurrency:    concurrency,
		Operations:     ops.Load(),
		Errors:         errs.Load(),
		P50Latency:     micros(merged.ValueAtQuantile(50)),
		P95Latency:     micros(merged.ValueAtQuantile(95)),
		P99Latency:     micros(merged.ValueAtQuantile(99)),
		MaxLatency:     micros(merged.Max()),
		AverageLatency: time.Duration(merged.Mean() * float64(time.Microsecond)),
		TotalTime:      total,
	}
	if total > 0 {
		result.Throughput = float64(result.Operations) / total.Seconds()
	}
	if result.Operations > 0 {
		result.ErrorRate = float64(result.Errors) / float64(result.Operations)
	}

	logger.Info("benchmark finished",
		zap.String("workload", result.Workload),
		zap.Int64("operations", result.Operations),
		zap.Int64("errors", result.Errors),
		zap.Duration("p95", result.P95Latency),
	)

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

func clamp(us int64) int64 {
	if us < minLatency {
		return minLatency
	}
	if us > maxLatency {
		return maxLatency
	}
	return us
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
