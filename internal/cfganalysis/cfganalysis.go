// Package cfganalysis populates each basic block's CFG predecessor and
// successor sets from its terminator's target labels and prunes blocks
// unreachable from the function's entry, matching the "no dead blocks"
// precondition the dominator and liveness passes both assume.
package cfganalysis

import (
	"github.com/lumenvm/lumen/internal/analysis"
	"github.com/lumenvm/lumen/internal/ir"
	"github.com/lumenvm/lumen/internal/lumenerr"
)

// Result is the CFG analysis's cached product: the function's entry block
// and its blocks in a stable, reachable-only order (a pre-order walk from
// entry, first-discovered-first, matching the order cfg_out edges were
// declared).
type Result struct {
	Entry  *ir.BasicBlock
	Blocks []*ir.BasicBlock
}

// Build walks fn from its entry block via each block's terminator targets,
// wires CfgIn/CfgOut, and drops any block not reached. fn.Blocks is
// rewritten in place to the reachable set, matching the teacher's
// ControlFlowGraph.Blocks population in internal/ir/types.go.
func Build(fn *ir.Function) *Result {
	if fn.Entry == nil {
		lumenerr.Raise(lumenerr.CodePrecondition, "function has no entry block", fn.Name)
	}

	order := []*ir.BasicBlock{}
	visited := map[*ir.BasicBlock]bool{}

	for _, b := range fn.Blocks {
		b.CfgIn = nil
		b.CfgOut = nil
	}

	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		order = append(order, b)

		term := b.Terminator()
		if term == nil {
			lumenerr.Raise(lumenerr.CodePrecondition, "block has no terminator", b.Label)
		}
		for _, target := range term.Targets {
			succ := fn.Block(target.Name)
			if succ == nil {
				lumenerr.Raise(lumenerr.CodePrecondition, "terminator targets unknown block "+target.Name, b.Label)
			}
			b.CfgOut = append(b.CfgOut, succ)
			succ.CfgIn = append(succ.CfgIn, b)
			visit(succ)
		}
	}
	visit(fn.Entry)

	fn.Blocks = order
	return &Result{Entry: fn.Entry, Blocks: order}
}

// Register wires Build into cache as the CFGAnalysis constructor.
func Register(cache *analysis.Cache) {
	cache.Register(analysis.CFGAnalysis, func(fn *ir.Function) any {
		return Build(fn)
	})
}
