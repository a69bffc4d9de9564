package skillkit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/deepnoodle-ai/skillkit/slogger"
)

// Options configures an Engine.
type Options struct {
	// Snapshot is the initial library snapshot. Required.
	Snapshot *Snapshot

	// Similarity supplies relevance scores for ranking. If nil, ranking
	// runs on scope and metadata signals alone (similarity 0).
	Similarity SimilarityProvider

	// Logger receives debug and warning messages. If nil, logging is
	// disabled.
	Logger slogger.Logger

	// DisableCache turns off resolution caching. Resolution is a pure
	// function of (snapshot, request), so the cache is an optimization
	// only, never a correctness requirement.
	DisableCache bool
}

// Engine is the public surface of the skill resolution and ranking core.
//
// An Engine is safe for arbitrary concurrent use: all operations are pure
// functions of the current snapshot and the request, the snapshot is held
// behind an atomic pointer, and SetSnapshot swaps it wholesale. In-flight
// requests keep the snapshot they started with; new requests observe the
// new one as soon as the swap completes.
type Engine struct {
	snapshot   atomic.Pointer[Snapshot]
	similarity SimilarityProvider
	logger     slogger.Logger
	cacheOff   bool

	cacheMu sync.RWMutex
	cache   map[cacheKey]*ResolvedSkill
}

type cacheKey struct {
	name        string
	constraint  string
	fingerprint string
}

// New creates an Engine over an initial snapshot.
func New(opts Options) (*Engine, error) {
	if opts.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDiscardLogger()
	}
	engine := &Engine{
		similarity: opts.Similarity,
		logger:     logger,
		cacheOff:   opts.DisableCache,
		cache:      map[cacheKey]*ResolvedSkill{},
	}
	engine.snapshot.Store(opts.Snapshot)
	return engine, nil
}

// Snapshot returns the snapshot current requests run against.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// SetSnapshot atomically replaces the library snapshot and drops the
// resolution cache. A stale cache entry surviving a snapshot change would be
// a correctness bug, so invalidation always accompanies the swap.
func (e *Engine) SetSnapshot(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	e.snapshot.Store(snapshot)
	e.Invalidate()
	e.logger.Debug("skill snapshot replaced",
		"skills", snapshot.Len(), "fingerprint", snapshot.Fingerprint()[:12])
}

// Invalidate drops every cached resolution. Callers normally rely on
// SetSnapshot doing this; Invalidate exists for callers that manage
// snapshot replacement themselves.
func (e *Engine) Invalidate() {
	e.cacheMu.Lock()
	e.cache = map[cacheKey]*ResolvedSkill{}
	e.cacheMu.Unlock()
}

// Resolve flattens the named skill's composition graph into final text.
// The constraint narrows version selection; an empty constraint accepts any
// version (highest wins). Returns a *SkillNotFoundError when no version
// satisfies the constraint and an *InvalidConstraintError when the
// constraint itself is malformed. Nested failures never surface here; they
// degrade to inline markers and diagnostics on the result.
func (e *Engine) Resolve(ctx context.Context, name, constraint string) (*ResolvedSkill, error) {
	snapshot := e.snapshot.Load()
	key := cacheKey{name: name, constraint: constraint, fingerprint: snapshot.Fingerprint()}

	if !e.cacheOff {
		e.cacheMu.RLock()
		cached, ok := e.cache[key]
		e.cacheMu.RUnlock()
		if ok {
			return cloneResolved(cached), nil
		}
	}

	r := &resolver{snapshot: snapshot, logger: e.logger}
	resolved, err := r.Resolve(ctx, name, constraint)
	if err != nil {
		return nil, err
	}
	if len(resolved.Diagnostics) > 0 {
		e.logger.Warn("skill resolved with diagnostics",
			"skill", resolved.Name, "diagnostics", len(resolved.Diagnostics))
	}

	if !e.cacheOff {
		e.cacheMu.Lock()
		e.cache[key] = cloneResolved(resolved)
		e.cacheMu.Unlock()
	}
	return resolved, nil
}

// cloneResolved returns a shallow copy with fresh slice headers. Cached
// entries never share slices with callers, so a caller appending to a
// result cannot corrupt what later cache hits observe.
func cloneResolved(r *ResolvedSkill) *ResolvedSkill {
	clone := *r
	if r.Provenance != nil {
		clone.Provenance = append([]string(nil), r.Provenance...)
	}
	if r.Resources != nil {
		clone.Resources = append([]Resource(nil), r.Resources...)
	}
	if r.Diagnostics != nil {
		clone.Diagnostics = append([]Diagnostic(nil), r.Diagnostics...)
	}
	return &clone
}

// Rank scores every eligible skill against the request context and returns
// up to limit candidates, best first. A limit of zero or below means no
// truncation. The ordering is fully deterministic for identical inputs.
func (e *Engine) Rank(ctx context.Context, ictx *InvocationContext, limit int) ([]RankedCandidate, error) {
	return rankSnapshot(ctx, e.snapshot.Load(), ictx, e.similarity, limit)
}

// Use ranks skills against the context and resolves the top candidate.
// Returns ErrNoMatch when no skill is eligible.
func (e *Engine) Use(ctx context.Context, ictx *InvocationContext) (*ResolvedSkill, error) {
	candidates, err := e.Rank(ctx, ictx, 1)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}
	return e.Resolve(ctx, candidates[0].Name, "")
}
