// Package depcache decides whether a task's recorded outputs are stale
// relative to its inputs, backed by a persisted stamp map.
package depcache

import (
	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/core/ports"
)

// Cache holds the per-output input signatures recorded by previous runs.
// It is loaded once before scheduling, mutated only by the scheduling
// goroutine, and saved exactly once at the end of the run.
type Cache struct {
	store    ports.StampStore
	hasher   ports.Hasher
	verifier ports.Verifier
	logger   ports.Logger

	stamps domain.StampMap

	// sigs memoizes current signatures within a single run so an input shared
	// by many tasks is hashed once. Entries for an output are dropped when
	// that output is rebuilt, since the file just changed under us.
	sigs map[string]string
}

// New creates a Cache. Call Load before the first staleness query.
func New(store ports.StampStore, hasher ports.Hasher, verifier ports.Verifier, logger ports.Logger) *Cache {
	return &Cache{
		store:    store,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger,
		stamps:   make(domain.StampMap),
		sigs:     make(map[string]string),
	}
}

// Load reads the persisted stamp map and drops signatures memoized by a
// previous run; the Cache instance outlives a single build. A missing or
// corrupt store degrades to an empty cache: incrementality is lost, the
// build proceeds.
func (c *Cache) Load() {
	c.sigs = make(map[string]string)
	stamps, err := c.store.Load()
	if err != nil {
		c.logger.Warn("build cache unreadable, rebuilding everything: " + err.Error())
		stamps = make(domain.StampMap)
	}
	if stamps == nil {
		stamps = make(domain.StampMap)
	}
	c.stamps = stamps
}

// Reset clears held stamps and memoized signatures without touching the
// store. Used when a run deliberately ignores prior build state.
func (c *Cache) Reset() {
	c.stamps = make(domain.StampMap)
	c.sigs = make(map[string]string)
}

// NeedsBuild reports whether the task owning the given outputs must run.
// True if any output is missing from disk, any output has no recorded stamp,
// or any input's current signature differs from the recorded one. Every
// declared output of a multi-output task is checked, not just the first.
func (c *Cache) NeedsBuild(outputs, inputs []string) bool {
	exist, err := c.verifier.OutputsExist(outputs)
	if err != nil || !exist {
		return true
	}

	distinctInputs := len(dedup(inputs))
	for _, output := range outputs {
		stamp, ok := c.stamps[output]
		if !ok {
			return true
		}
		if len(stamp) != distinctInputs {
			// Input set changed since the stamp was recorded.
			return true
		}
		for _, input := range inputs {
			recorded, ok := stamp[input]
			if !ok {
				return true
			}
			current, err := c.currentSignature(input)
			if err != nil || current != recorded {
				return true
			}
		}
	}
	return false
}

// RecordBuilt restamps each output with the current signatures of its inputs.
// It runs on real builds and on incremental skips alike; a skip restamping is
// what lets downstream staleness checks pass on the next invocation.
// Signature failures are logged and leave the output unstamped, which simply
// forces a rebuild next time.
func (c *Cache) RecordBuilt(outputs, inputs []string) {
	// Outputs were just (re)written, so their memoized signatures are stale.
	for _, output := range outputs {
		delete(c.sigs, output)
	}

	stamp := make(map[string]string, len(inputs))
	for _, input := range inputs {
		sig, err := c.currentSignature(input)
		if err != nil {
			c.logger.Warn("not stamping " + input + ": " + err.Error())
			continue
		}
		stamp[input] = sig
	}
	for _, output := range outputs {
		c.stamps[output] = stamp
	}
}

// Save persists the full stamp map. It is invoked from a deferred cleanup
// path so partial progress survives an aborted build.
func (c *Cache) Save() error {
	return c.store.Save(c.stamps)
}

func (c *Cache) currentSignature(path string) (string, error) {
	if sig, ok := c.sigs[path]; ok {
		return sig, nil
	}
	sig, err := c.hasher.Signature(path)
	if err != nil {
		return "", err
	}
	c.sigs[path] = sig
	return sig, nil
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
