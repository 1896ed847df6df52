package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/memeforge/memeforge/internal/swap"
	"github.com/memeforge/memeforge/internal/trends"
)

func makeCandidates(n int) []trends.Candidate {
	candidates := make([]trends.Candidate, n)
	for i := range candidates {
		candidates[i] = trends.Candidate{
			ID:  fmt.Sprintf("cand-%02d", i+1),
			URL: fmt.Sprintf("https://i.redd.it/cand-%02d.jpg", i+1),
		}
	}
	return candidates
}

// everyNthSucceeds fails every attempt except multiples of n.
func everyNthSucceeds(n int) TransformFunc {
	var calls atomic.Int64
	return func(ctx context.Context, cand trends.Candidate) swap.Result {
		attempt := calls.Add(1)
		if attempt%int64(n) == 0 {
			return swap.Result{Candidate: cand, Outcome: swap.OutcomeSuccess, Artifact: cand.ID + ".jpg"}
		}
		return swap.Result{Candidate: cand, Outcome: swap.OutcomeNoFaceDetected}
	}
}

func alwaysFails(ctx context.Context, cand trends.Candidate) swap.Result {
	return swap.Result{Candidate: cand, Outcome: swap.OutcomeNoFaceDetected}
}

func alwaysSucceeds(ctx context.Context, cand trends.Candidate) swap.Result {
	return swap.Result{Candidate: cand, Outcome: swap.OutcomeSuccess, Artifact: cand.ID + ".jpg"}
}

func TestRun_StopsOnceTargetReached(t *testing.T) {
	// Every third attempt succeeds: successes land on attempts 3, 6 and 9,
	// so a target of 3 must consume exactly 9 of the 15 allowed attempts.
	g := NewGenerator(everyNthSucceeds(3), Options{Target: 3, MaxAttempts: 15})

	report := g.Run(context.Background(), makeCandidates(20))

	if len(report.Successes) != 3 {
		t.Errorf("expected 3 successes, got %d", len(report.Successes))
	}
	if report.Attempts != 9 {
		t.Errorf("expected exactly 9 attempts, got %d", report.Attempts)
	}
}

func TestRun_BudgetExhausted(t *testing.T) {
	g := NewGenerator(alwaysFails, Options{Target: 5, MaxAttempts: 7})

	report := g.Run(context.Background(), makeCandidates(20))

	if len(report.Successes) != 0 {
		t.Errorf("expected no successes, got %d", len(report.Successes))
	}
	if report.Attempts != 7 {
		t.Errorf("expected budget of 7 attempts to be spent, got %d", report.Attempts)
	}
	if len(report.Results) != 7 {
		t.Errorf("expected every attempt recorded, got %d results", len(report.Results))
	}
}

func TestRun_FewerCandidatesThanBudget(t *testing.T) {
	g := NewGenerator(alwaysFails, Options{Target: 3, MaxAttempts: 50})

	report := g.Run(context.Background(), makeCandidates(4))

	if report.Attempts != 4 {
		t.Errorf("expected run to end when candidates run out, got %d attempts", report.Attempts)
	}
}

func TestRun_PartialYieldIsNotAFailure(t *testing.T) {
	// Only one success available within the budget: the report carries it
	// rather than discarding partial results.
	g := NewGenerator(everyNthSucceeds(5), Options{Target: 3, MaxAttempts: 6})

	report := g.Run(context.Background(), makeCandidates(10))

	if len(report.Successes) != 1 {
		t.Errorf("expected 1 success from a partial batch, got %d", len(report.Successes))
	}
	if report.Attempts != 6 {
		t.Errorf("expected all 6 budgeted attempts, got %d", report.Attempts)
	}
}

func TestRun_ConcurrentReachesTarget(t *testing.T) {
	g := NewGenerator(alwaysSucceeds, Options{Target: 4, MaxAttempts: 20, Concurrency: 4})

	report := g.Run(context.Background(), makeCandidates(20))

	if len(report.Successes) != 4 {
		t.Errorf("expected exactly 4 successes, got %d", len(report.Successes))
	}
	if report.Attempts > 20 {
		t.Errorf("attempts exceeded budget: %d", report.Attempts)
	}
}

func TestRun_ConcurrentFailuresConsumeBudget(t *testing.T) {
	var calls atomic.Int64
	transform := func(ctx context.Context, cand trends.Candidate) swap.Result {
		calls.Add(1)
		return swap.Result{Candidate: cand, Outcome: swap.OutcomeSourceUnavailable}
	}
	g := NewGenerator(transform, Options{Target: 3, MaxAttempts: 10, Concurrency: 3})

	report := g.Run(context.Background(), makeCandidates(30))

	if report.Attempts != 10 {
		t.Errorf("expected 10 attempts, got %d", report.Attempts)
	}
	if calls.Load() != 10 {
		t.Errorf("expected 10 transform calls, got %d", calls.Load())
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int64
	transform := func(ctx context.Context, cand trends.Candidate) swap.Result {
		if calls.Add(1) == 2 {
			cancel()
		}
		return swap.Result{Candidate: cand, Outcome: swap.OutcomeNoFaceDetected}
	}
	g := NewGenerator(transform, Options{Target: 5, MaxAttempts: 50})

	report := g.Run(ctx, makeCandidates(50))

	if report.Attempts != 2 {
		t.Errorf("expected run to stop after cancellation, got %d attempts", report.Attempts)
	}
}

func TestRun_OnProgress(t *testing.T) {
	var progress atomic.Int64
	g := NewGenerator(everyNthSucceeds(2), Options{
		Target:      2,
		MaxAttempts: 10,
		OnProgress:  func(swap.Result) { progress.Add(1) },
	})

	report := g.Run(context.Background(), makeCandidates(10))

	if int64(report.Attempts) != progress.Load() {
		t.Errorf("expected OnProgress per attempt: %d attempts, %d callbacks", report.Attempts, progress.Load())
	}
}

func TestRun_EmptyCandidates(t *testing.T) {
	g := NewGenerator(alwaysSucceeds, Options{Target: 3, MaxAttempts: 10})

	report := g.Run(context.Background(), nil)

	if report.Attempts != 0 || len(report.Successes) != 0 {
		t.Errorf("expected empty report for no candidates, got %+v", report)
	}
}
