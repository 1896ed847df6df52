package batch

import (
	"context"
	"log"
	"math/rand"
	"sync"

	"github.com/memeforge/memeforge/internal/swap"
	"github.com/memeforge/memeforge/internal/trends"
)

// TransformFunc runs one candidate through the swap pipeline.
type TransformFunc func(ctx context.Context, cand trends.Candidate) swap.Result

// Options controls a batch run.
type Options struct {
	// Target is the number of successful results to collect.
	Target int
	// MaxAttempts bounds total candidate processing regardless of yield.
	// Zero means attempt at most every provided candidate once.
	MaxAttempts int
	// Concurrency is the number of candidates processed in parallel.
	// Values below 2 run sequentially in candidate order.
	Concurrency int
	// Shuffle randomizes candidate order before processing, trading
	// determinism for variety between consecutive batches.
	Shuffle bool
	// OnProgress, when set, is invoked after every attempt.
	OnProgress func(swap.Result)
}

// Report summarizes a batch run.
type Report struct {
	// Successes holds the successful results, at most Target of them.
	Successes []swap.Result
	// Attempts is the number of candidates actually processed.
	Attempts int
	// Results holds every attempt's result in completion order.
	Results []swap.Result
}

// Generator drives candidates through a transform until the target number
// of successes is reached or the attempt budget runs out. Individual
// failures consume budget but never abort the run.
type Generator struct {
	transform TransformFunc
	opts      Options
}

func NewGenerator(transform TransformFunc, opts Options) *Generator {
	if opts.Target < 1 {
		opts.Target = 1
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Generator{transform: transform, opts: opts}
}

// Run processes candidates until enough succeed or the budget is spent.
// With fewer candidates than the budget the run ends when they run out.
func (g *Generator) Run(ctx context.Context, candidates []trends.Candidate) Report {
	budget := g.opts.MaxAttempts
	if budget <= 0 || budget > len(candidates) {
		budget = len(candidates)
	}

	if g.opts.Shuffle {
		candidates = append([]trends.Candidate(nil), candidates...)
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	if g.opts.Concurrency < 2 {
		return g.runSequential(ctx, candidates, budget)
	}
	return g.runConcurrent(ctx, candidates, budget)
}

func (g *Generator) runSequential(ctx context.Context, candidates []trends.Candidate, budget int) Report {
	var report Report
	for _, cand := range candidates {
		if ctx.Err() != nil || report.Attempts >= budget || len(report.Successes) >= g.opts.Target {
			break
		}

		result := g.transform(ctx, cand)
		report.Attempts++
		report.Results = append(report.Results, result)
		if result.Success() {
			report.Successes = append(report.Successes, result)
		} else {
			log.Printf("batch: candidate %s skipped: %s", cand.ID, result.Outcome)
		}
		if g.opts.OnProgress != nil {
			g.opts.OnProgress(result)
		}
	}
	return report
}

// runConcurrent fans candidates out over a bounded worker pool. Reaching
// the target cancels in-flight work; attempts already started still count
// toward the budget, so Attempts may slightly exceed the yield point.
func (g *Generator) runConcurrent(ctx context.Context, candidates []trends.Candidate, budget int) Report {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		report    Report
		successes int
	)
	semaphore := make(chan struct{}, g.opts.Concurrency)

	for _, cand := range candidates {
		mu.Lock()
		spent := report.Attempts >= budget || successes >= g.opts.Target
		if !spent {
			report.Attempts++
		}
		mu.Unlock()
		if spent || ctx.Err() != nil {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(cand trends.Candidate) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := g.transform(ctx, cand)

			mu.Lock()
			report.Results = append(report.Results, result)
			if result.Success() {
				report.Successes = append(report.Successes, result)
				successes++
				if successes >= g.opts.Target {
					cancel()
				}
			} else {
				log.Printf("batch: candidate %s skipped: %s", cand.ID, result.Outcome)
			}
			mu.Unlock()

			if g.opts.OnProgress != nil {
				g.opts.OnProgress(result)
			}
		}(cand)
	}

	wg.Wait()

	// Cancellation can race the final few workers past the target.
	if len(report.Successes) > g.opts.Target {
		report.Successes = report.Successes[:g.opts.Target]
	}
	return report
}
