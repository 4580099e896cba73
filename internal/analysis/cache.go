// Package analysis provides the per-function analysis cache the SSA pass
// (and its collaborators) request results from: compute-once, invalidate-
// on-mutation, keyed by analysis Kind.
package analysis

import (
	"sync"

	"github.com/lumenvm/lumen/internal/ir"
)

// Kind names a cached analysis result.
type Kind int

const (
	CFGAnalysis Kind = iota
	DominatorTreeAnalysis
	LivenessAnalysis
	DefUseAnalysis
)

func (k Kind) String() string {
	switch k {
	case CFGAnalysis:
		return "cfg"
	case DominatorTreeAnalysis:
		return "dominator-tree"
	case LivenessAnalysis:
		return "liveness"
	case DefUseAnalysis:
		return "def-use"
	default:
		return "unknown-analysis"
	}
}

// Constructor computes an analysis result for fn from scratch. Registered
// once per Kind via Cache.Register; Request calls it on a cache miss.
type Constructor func(fn *ir.Function) any

type entry struct {
	value any
	valid bool
}

// Cache memoizes analysis results per (*ir.Function, Kind). A single Cache
// instance is meant to be shared by a driver compiling many functions, so
// its map is guarded by a mutex even though any individual pass run over
// one function is synchronous and single-threaded (SPEC_FULL.md §5).
type Cache struct {
	mu           sync.Mutex
	constructors map[Kind]Constructor
	results      map[*ir.Function]map[Kind]*entry
}

// NewCache creates an empty cache with no constructors registered. Callers
// wire up CFGAnalysis, DominatorTreeAnalysis, and LivenessAnalysis via each
// analysis package's Register function (internal/pipeline.NewCache does
// this for the standard pipeline). DefUseAnalysis has no constructor in
// this core at all — it is consumed only by passes outside this core's
// scope; the SSA pass only ever invalidates it.
func NewCache() *Cache {
	c := &Cache{
		constructors: map[Kind]Constructor{},
		results:      map[*ir.Function]map[Kind]*entry{},
	}
	return c
}

// Register installs or replaces the constructor used to compute kind on a
// cache miss.
func (c *Cache) Register(kind Kind, ctor Constructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constructors[kind] = ctor
}

// Request returns the cached result for (fn, kind), recomputing it via the
// registered constructor if absent or invalidated. Panics if no
// constructor was registered for kind — a precondition violation, since
// every analysis the pass requests must have a producer wired in before
// the pass runs.
func (c *Cache) Request(fn *ir.Function, kind Kind) any {
	c.mu.Lock()
	perFn, ok := c.results[fn]
	if !ok {
		perFn = map[Kind]*entry{}
		c.results[fn] = perFn
	}
	e, ok := perFn[kind]
	if ok && e.valid {
		c.mu.Unlock()
		return e.value
	}
	ctor, ok := c.constructors[kind]
	c.mu.Unlock()
	if !ok {
		panic("analysis: no constructor registered for " + kind.String())
	}

	value := ctor(fn)

	c.mu.Lock()
	perFn[kind] = &entry{value: value, valid: true}
	c.mu.Unlock()
	return value
}

// Invalidate marks kind's cached result for fn stale, forcing the next
// Request to recompute it.
func (c *Cache) Invalidate(fn *ir.Function, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if perFn, ok := c.results[fn]; ok {
		if e, ok := perFn[kind]; ok {
			e.valid = false
		}
	}
}
