package benchmark

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/khanglvm/catalog-search/internal/search"
)

// SpeedOptions controls a speed run.
type SpeedOptions struct {
	// Iterations is how many times every query runs. Default 100.
	Iterations int
	// Workers is the goroutine pool size. Default GOMAXPROCS.
	Workers int
	// Progress, if set, is called from the workers after every search.
	Progress func()
}

// SpeedResult reports latency of full Search calls.
type SpeedResult struct {
	Queries    int           `json:"queries"`
	Iterations int           `json:"iterations"`
	Workers    int           `json:"workers"`
	Searches   int           `json:"searches"`
	Mean       time.Duration `json:"meanNs"`
	P50        time.Duration `json:"p50Ns"`
	P95        time.Duration `json:"p95Ns"`
	Max        time.Duration `json:"maxNs"`
	Elapsed    time.Duration `json:"elapsedNs"`
	// Throughput is searches per second of wall time.
	Throughput float64 `json:"throughput"`
}

// ErrNoQueries is returned by RunSpeed when there is nothing to run.
var ErrNoQueries = errors.New("no queries to benchmark")

// RunSpeed runs every query opts.Iterations times on a worker pool and
// measures each Search call.
func RunSpeed(ctx context.Context, corpus []search.Record, queries []string, opts SpeedOptions) (*SpeedResult, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	total := len(queries) * opts.Iterations
	durations := make([]time.Duration, 0, total)
	var mu sync.Mutex
	var wg sync.WaitGroup

	start := time.Now()
submit:
	for i := 0; i < opts.Iterations; i++ {
		for _, q := range queries {
			if ctx.Err() != nil {
				break submit
			}
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				t := time.Now()
				search.Search(q, corpus)
				d := time.Since(t)

				mu.Lock()
				durations = append(durations, d)
				mu.Unlock()

				if opts.Progress != nil {
					opts.Progress()
				}
			}); err != nil {
				wg.Done()
				wg.Wait()
				return nil, fmt.Errorf("failed to submit search: %w", err)
			}
		}
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return summarize(durations, len(queries), opts, elapsed), nil
}

func summarize(durations []time.Duration, queries int, opts SpeedOptions, elapsed time.Duration) *SpeedResult {
	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	r := &SpeedResult{
		Queries:    queries,
		Iterations: opts.Iterations,
		Workers:    opts.Workers,
		Searches:   len(durations),
		Elapsed:    elapsed,
	}
	if len(durations) == 0 {
		return r
	}

	r.Mean = sum / time.Duration(len(durations))
	r.P50 = percentile(durations, 0.50)
	r.P95 = percentile(durations, 0.95)
	r.Max = durations[len(durations)-1]
	if elapsed > 0 {
		r.Throughput = float64(len(durations)) / elapsed.Seconds()
	}
	return r
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
