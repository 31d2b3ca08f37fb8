// Package catalog maintains the registry of available model backends.
// The catalog is refreshed by a single periodic writer and read by many
// concurrent selections; readers always get a consistent snapshot.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Tier is the coarse performance ranking used to order candidates.
type Tier string

// Performance tiers, best first
const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Rank returns a sortable rank for the tier; higher is better.
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Capability classifies what a backend is suited for.
type Capability string

// Backend capabilities
const (
	CapabilityGeneral   Capability = "general"
	CapabilityCoding    Capability = "coding"
	CapabilityVision    Capability = "vision"
	CapabilityEmbedding Capability = "embedding"
)

// ModelDescriptor describes one available model backend.
type ModelDescriptor struct {
	ID                 string     `json:"id"`
	Provider           string     `json:"provider"`
	PerformanceTier    Tier       `json:"performance_tier"`
	Capability         Capability `json:"capability"`
	ApproxResourceCost int        `json:"approx_resource_cost"`
	Local              bool       `json:"local"`
}

// Probe discovers locally available backend identifiers.
type Probe interface {
	ListModels(ctx context.Context) ([]string, error)
}

// DefaultRefreshInterval is how often the catalog re-probes discovery.
const DefaultRefreshInterval = 30 * time.Second

// Catalog is the in-memory, read-mostly registry of model backends.
type Catalog struct {
	mu          sync.RWMutex
	descriptors []ModelDescriptor
	lastRefresh time.Time

	probe    Probe
	static   []ModelDescriptor
	interval time.Duration
}

// New creates a catalog seeded with the statically configured remote
// backends. Call Refresh (or Start) to add probed local backends.
func New(probe Probe, static []ModelDescriptor, interval time.Duration) *Catalog {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	c := &Catalog{
		probe:    probe,
		static:   append([]ModelDescriptor(nil), static...),
		interval: interval,
	}
	c.descriptors = append([]ModelDescriptor(nil), static...)
	return c
}

// Snapshot returns a copy of the current descriptor list, safe to read while
// a concurrent refresh replaces the underlying list.
func (c *Catalog) Snapshot() []ModelDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ModelDescriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// LastRefresh reports when the catalog last refreshed successfully.
func (c *Catalog) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// Refresh re-probes discovery and replaces the descriptor list. A probe
// failure retains the last-known list (stale-but-usable, never empty when a
// fallback exists) and returns the error for the caller to log.
func (c *Catalog) Refresh(ctx context.Context) error {
	var probed []ModelDescriptor
	var probeErr error

	if c.probe != nil {
		names, err := c.probe.ListModels(ctx)
		if err != nil {
			probeErr = fmt.Errorf("discovery probe failed: %w", err)
		} else {
			for _, name := range names {
				probed = append(probed, DescribeLocalModel(name))
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if probeErr != nil {
		// Keep last-known list. If the probe has never succeeded, fall back
		// to the hard-coded minimal local set so selection has candidates.
		if c.lastRefresh.IsZero() {
			c.descriptors = merged(c.static, fallbackLocalDescriptors())
		}
		return probeErr
	}

	c.descriptors = merged(c.static, probed)
	c.lastRefresh = time.Now()
	return nil
}

// Start launches the periodic refresh loop. The loop stops when ctx is
// cancelled. Refresh errors are delivered to onError when set.
func (c *Catalog) Start(ctx context.Context, onError func(error)) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil && onError != nil {
					onError(err)
				}
			}
		}
	}()
}

// merged combines static and probed descriptors, de-duplicating by id and
// keeping a stable order (locals first, then by descending tier, then id).
func merged(static, probed []ModelDescriptor) []ModelDescriptor {
	seen := make(map[string]bool)
	out := make([]ModelDescriptor, 0, len(static)+len(probed))
	for _, d := range append(append([]ModelDescriptor(nil), probed...), static...) {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Local != out[j].Local {
			return out[i].Local
		}
		if out[i].PerformanceTier.Rank() != out[j].PerformanceTier.Rank() {
			return out[i].PerformanceTier.Rank() > out[j].PerformanceTier.Rank()
		}
		return out[i].ID < out[j].ID
	})
	return out
}
