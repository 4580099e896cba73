// Package liveness computes per-block live-in variable sets via the
// standard backward dataflow fixed point, grounded in the teacher's
// register-set style (see the ralph-cc-derived RegSet conventions: small
// map[string]bool sets with Union/Minus helpers) adapted to IR variable
// names rather than physical registers.
//
// This runs before SSA construction in the pipeline (internal/ssa consumes
// it to filter phi placement), so it operates on pre-rename variable names
// only. Phi operands are not counted as uses in any block: neither in the
// phi's own block nor in the predecessor an incoming value flows from.
// Pre-SSA input has no phis, so this only affects input that already
// carries them.
package liveness

import (
	"github.com/lumenvm/lumen/internal/analysis"
	"github.com/lumenvm/lumen/internal/cfganalysis"
	"github.com/lumenvm/lumen/internal/ir"
)

// Result is the liveness analysis's cached product: per-block live-in and
// live-out variable name sets.
type Result struct {
	liveIn  map[*ir.BasicBlock]map[string]bool
	liveOut map[*ir.BasicBlock]map[string]bool
}

// LiveIn returns the set of variable names live at entry to b.
func (r *Result) LiveIn(b *ir.BasicBlock) map[string]bool { return r.liveIn[b] }

// LiveOut returns the set of variable names live at exit from b.
func (r *Result) LiveOut(b *ir.BasicBlock) map[string]bool { return r.liveOut[b] }

// Build computes live-in/live-out sets for every block in cfg.Blocks and
// also copies live-in into each ir.BasicBlock.LiveIn field, since the SSA
// pass's data model contract (spec.md §6) reads liveness off the block
// itself.
func Build(fn *ir.Function, cfg *cfganalysis.Result) *Result {
	use, def := computeUseDef(cfg.Blocks)

	liveIn := make(map[*ir.BasicBlock]map[string]bool, len(cfg.Blocks))
	liveOut := make(map[*ir.BasicBlock]map[string]bool, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		liveIn[b] = map[string]bool{}
		liveOut[b] = map[string]bool{}
	}

	changed := true
	for changed {
		changed = false
		for i := len(cfg.Blocks) - 1; i >= 0; i-- {
			b := cfg.Blocks[i]

			out := map[string]bool{}
			for _, s := range b.CfgOut {
				for v := range liveIn[s] {
					out[v] = true
				}
			}

			in := map[string]bool{}
			for v := range use[b] {
				in[v] = true
			}
			for v := range out {
				if !def[b][v] {
					in[v] = true
				}
			}

			if !setEqual(in, liveIn[b]) || !setEqual(out, liveOut[b]) {
				liveIn[b] = in
				liveOut[b] = out
				changed = true
			}
		}
	}

	for _, b := range cfg.Blocks {
		b.LiveIn = liveIn[b]
	}

	return &Result{liveIn: liveIn, liveOut: liveOut}
}

// computeUseDef returns, per block, the set of variable names read before
// any same-block redefinition (use) and the set of variable names assigned
// anywhere in the block (def). Phi instructions contribute no uses — their
// incoming values are not attributed to the predecessor block either — and
// do contribute a def, since a phi's output is a definition at the top of
// its block.
func computeUseDef(blocks []*ir.BasicBlock) (use, def map[*ir.BasicBlock]map[string]bool) {
	use = make(map[*ir.BasicBlock]map[string]bool, len(blocks))
	def = make(map[*ir.BasicBlock]map[string]bool, len(blocks))
	for _, b := range blocks {
		u := map[string]bool{}
		d := map[string]bool{}
		for _, inst := range b.Instructions {
			if inst.Opcode != ir.OpPhi {
				for _, op := range inst.Operands {
					if v, ok := op.(*ir.Variable); ok && !d[v.Name] {
						u[v.Name] = true
					}
				}
			}
			if inst.Output != nil {
				d[inst.Output.Name] = true
			}
		}
		use[b] = u
		def[b] = d
	}
	return use, def
}

func setEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Register wires Build into cache as the LivenessAnalysis constructor.
func Register(cache *analysis.Cache) {
	cache.Register(analysis.LivenessAnalysis, func(fn *ir.Function) any {
		cfg := cache.Request(fn, analysis.CFGAnalysis).(*cfganalysis.Result)
		return Build(fn, cfg)
	})
}
