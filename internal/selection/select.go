// Package selection picks the best available model backend for a request and
// drives the timeout-bounded fallback chain across candidates.
package selection

import (
	"context"
	"sort"
	"time"

	"github.com/jonathan/syllabus-parser/internal/catalog"
	"github.com/jonathan/syllabus-parser/internal/llm"
)

// DefaultAttemptTimeout caps the time budget of a single candidate attempt.
const DefaultAttemptTimeout = 20 * time.Second

// Request describes one selection-and-generate call.
type Request struct {
	Prompt     string
	Capability catalog.Capability
	Deadline   time.Time // zero means no hard deadline
	Preference []string  // ordered model ids; beats discovery order at equal tier
}

// ProviderResult is the first successful structured response.
type ProviderResult struct {
	Text     string
	ModelID  string
	Provider string
	Tier     catalog.Tier
	Attempts int
	Elapsed  time.Duration
}

// Orchestrator selects candidates from the catalog and issues bounded calls
// through the registered provider clients.
type Orchestrator struct {
	catalog        *catalog.Catalog
	clients        llm.Registry
	attemptTimeout time.Duration
}

// NewOrchestrator creates an orchestrator. attemptTimeout caps each
// candidate attempt; non-positive values use DefaultAttemptTimeout.
func NewOrchestrator(cat *catalog.Catalog, clients llm.Registry, attemptTimeout time.Duration) *Orchestrator {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Orchestrator{
		catalog:        cat,
		clients:        clients,
		attemptTimeout: attemptTimeout,
	}
}

// Candidates builds the ordered candidate list for a capability: highest
// performance tier first; within a tier, the explicit preference list wins,
// then local backends before remote ones, then lower resource cost.
// Deterministic given the same snapshot. Backends whose provider has no
// registered client are excluded.
func (o *Orchestrator) Candidates(capability catalog.Capability, preference []string) []catalog.ModelDescriptor {
	prefIndex := make(map[string]int, len(preference))
	for i, id := range preference {
		prefIndex[id] = i
	}

	candidates := make([]catalog.ModelDescriptor, 0)
	for _, desc := range o.catalog.Snapshot() {
		if desc.Capability != capability {
			continue
		}
		if _, ok := o.clients[desc.Provider]; !ok {
			continue
		}
		candidates = append(candidates, desc)
	}

	rank := func(d catalog.ModelDescriptor) int {
		if i, ok := prefIndex[d.ID]; ok {
			return i
		}
		return len(preference)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.PerformanceTier.Rank() != b.PerformanceTier.Rank() {
			return a.PerformanceTier.Rank() > b.PerformanceTier.Rank()
		}
		if rank(a) != rank(b) {
			return rank(a) < rank(b)
		}
		if a.Local != b.Local {
			return a.Local
		}
		if a.ApproxResourceCost != b.ApproxResourceCost {
			return a.ApproxResourceCost < b.ApproxResourceCost
		}
		return a.ID < b.ID
	})

	return candidates
}

// Generate walks the candidate list issuing timeout-bounded calls and
// returns the first successful result. A candidate failure or timeout
// advances to the next candidate; parent-context cancellation propagates
// immediately. When every candidate has been tried and failed, an
// ExhaustedError listing each attempt is returned.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*ProviderResult, error) {
	started := time.Now()
	candidates := o.Candidates(req.Capability, req.Preference)

	exhausted := &ExhaustedError{Capability: string(req.Capability)}

	for _, desc := range candidates {
		timeout, ok := o.attemptBudget(req.Deadline)
		if !ok {
			exhausted.Attempts = append(exhausted.Attempts, AttemptError{
				ModelID:  desc.ID,
				Provider: desc.Provider,
				Err:      context.DeadlineExceeded,
			})
			continue
		}

		client := o.clients[desc.Provider]
		params := llm.ParamsForTier(desc.PerformanceTier)

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := client.GenerateJSON(attemptCtx, desc.ID, req.Prompt, params)
		cancel()

		if err == nil {
			return &ProviderResult{
				Text:     text,
				ModelID:  desc.ID,
				Provider: desc.Provider,
				Tier:     desc.PerformanceTier,
				Attempts: len(exhausted.Attempts) + 1,
				Elapsed:  time.Since(started),
			}, nil
		}

		// Caller cancellation is not a provider failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		exhausted.Attempts = append(exhausted.Attempts, AttemptError{
			ModelID:  desc.ID,
			Provider: desc.Provider,
			Err:      err,
		})
	}

	return nil, exhausted
}

// attemptBudget computes the timeout for the next attempt: the per-attempt
// cap, reduced to the time remaining before the deadline. Returns false when
// the deadline has already passed.
func (o *Orchestrator) attemptBudget(deadline time.Time) (time.Duration, bool) {
	if deadline.IsZero() {
		return o.attemptTimeout, true
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, false
	}
	if remaining < o.attemptTimeout {
		return remaining, true
	}
	return o.attemptTimeout, true
}
