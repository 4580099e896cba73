// Package ssa implements the SSA construction pass: phi placement via the
// Cytron et al. iterated-dominance-frontier worklist algorithm, a single
// dominator-tree-preorder renaming walk with a per-name stack, and a
// degenerate-phi cleanup pass. It is grounded directly on vyper's venom
// MakeSSA pass (venom/passes/make_ssa.py, kept in the reference pack's
// original_source) and written in the teacher's SSA-construction-state
// naming style (internal/ir/builder.go's variableStack/incompletePhis
// fields, here as pass.stack/pass.counter).
package ssa

import (
	"github.com/lumenvm/lumen/internal/analysis"
	"github.com/lumenvm/lumen/internal/domtree"
	"github.com/lumenvm/lumen/internal/ir"
	"github.com/lumenvm/lumen/internal/liveness"
	"github.com/lumenvm/lumen/internal/lumenerr"
)

// pass carries the SSA construction state for a single Run call: the
// definition-site table phi-placement computes, and the per-name rename
// stacks the renaming walk pushes and pops.
type pass struct {
	fn   *ir.Function
	dom  *domtree.Result
	live *liveness.Result

	// defsOrder is the deterministic iteration order over variable names
	// phi-placement assigns iteration indices in; defBlocks holds each
	// name's def-site blocks in dom_post_order scan order.
	defsOrder []string
	defBlocks map[string][]*ir.BasicBlock
	varTypes  map[string]ir.Type

	counter map[string]int
	stack   map[string][]int
}

// Run mutates fn into SSA form: it requests CFG, dominator, and liveness
// analyses from cache, places phis, renames every variable, removes
// degenerate phis, and invalidates the liveness and def-use analyses the
// mutation invalidated. This is the pass's single entry point
// (SPEC_FULL.md §6); it returns nothing and panics with a
// *lumenerr.InternalError on the precondition violations it checks itself.
// A kind with no registered constructor panics inside analysis.Cache.Request,
// and a malformed phi operand list inside ir.Instruction.PhiOperands, both
// with a plain string rather than an *InternalError.
func Run(fn *ir.Function, cache *analysis.Cache) {
	cache.Request(fn, analysis.CFGAnalysis)
	dom, ok := cache.Request(fn, analysis.DominatorTreeAnalysis).(*domtree.Result)
	if !ok {
		lumenerr.Raise(lumenerr.CodePrecondition, "dominator-tree analysis unavailable", fn.Name)
	}
	live, ok := cache.Request(fn, analysis.LivenessAnalysis).(*liveness.Result)
	if !ok {
		lumenerr.Raise(lumenerr.CodePrecondition, "liveness analysis unavailable", fn.Name)
	}

	p := &pass{
		fn:        fn,
		dom:       dom,
		live:      live,
		defBlocks: map[string][]*ir.BasicBlock{},
		varTypes:  map[string]ir.Type{},
		counter:   map[string]int{},
		stack:     map[string][]int{},
	}

	p.computeDefs()
	p.placePhis()
	p.initStacks()
	p.rename(fn.Entry)
	p.removeDegeneratePhis(fn.Entry)

	cache.Invalidate(fn, analysis.LivenessAnalysis)
	cache.Invalidate(fn, analysis.DefUseAnalysis)
}

// computeDefs scans every block in dom_post_order, collecting the set of
// variable names it assigns. defsOrder records each name's first
// appearance in that scan, giving phi-placement its deterministic
// variable-iteration order (SPEC_FULL.md §9's deterministic traversal).
func (p *pass) computeDefs() {
	seen := map[string]bool{}
	for _, b := range p.dom.DomPostOrder() {
		for _, inst := range b.Instructions {
			if inst.Output == nil {
				continue
			}
			name := inst.Output.Name
			if _, ok := p.varTypes[name]; !ok {
				p.varTypes[name] = inst.Output.Type
			}
			if !seen[name] {
				seen[name] = true
				p.defsOrder = append(p.defsOrder, name)
			}
			p.defBlocks[name] = appendIfAbsent(p.defBlocks[name], b)
		}
	}
}

func appendIfAbsent(blocks []*ir.BasicBlock, b *ir.BasicBlock) []*ir.BasicBlock {
	for _, existing := range blocks {
		if existing == b {
			return blocks
		}
	}
	return append(blocks, b)
}
