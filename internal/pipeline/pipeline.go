// Package pipeline wires a fresh analysis cache with the CFG, dominator-
// tree, and liveness constructors the SSA pass depends on, and runs the
// pass. It is the one place that needs to know about every analysis
// package at once; everything else only imports the packages whose
// results it actually reads.
package pipeline

import (
	"github.com/lumenvm/lumen/internal/analysis"
	"github.com/lumenvm/lumen/internal/cfganalysis"
	"github.com/lumenvm/lumen/internal/domtree"
	"github.com/lumenvm/lumen/internal/ir"
	"github.com/lumenvm/lumen/internal/liveness"
	"github.com/lumenvm/lumen/internal/ssa"
)

// NewCache returns an analysis.Cache with CFGAnalysis, DominatorTreeAnalysis,
// and LivenessAnalysis constructors registered.
func NewCache() *analysis.Cache {
	cache := analysis.NewCache()
	cfganalysis.Register(cache)
	domtree.Register(cache)
	liveness.Register(cache)
	return cache
}

// MakeSSA runs the SSA construction pass over fn using a freshly wired
// cache, returning the cache in case a caller wants to inspect or reuse
// its analyses afterward (e.g. to print fn with CfgIn/CfgOut populated).
func MakeSSA(fn *ir.Function) *analysis.Cache {
	cache := NewCache()
	ssa.Run(fn, cache)
	return cache
}
