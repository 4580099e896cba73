package pipeline

import (
	"fmt"

	"github.com/lumenvm/lumen/internal/analysis"
	"github.com/lumenvm/lumen/internal/domtree"
	"github.com/lumenvm/lumen/internal/ir"
)

// VerifyDominance checks the post-pass invariant spec.md §8 names: every
// use of a versioned variable (n, k) is dominated by its unique defining
// instruction's block, or — for a phi incoming value — the definition
// dominates the predecessor block the value flows in from. It is a sanity
// check for pass development, not something ssa.Run calls itself; the CLI
// runs it when the pipeline config enables it.
func VerifyDominance(fn *ir.Function, cache *analysis.Cache) error {
	dom := cache.Request(fn, analysis.DominatorTreeAnalysis).(*domtree.Result)

	defBlock := map[ir.VarKey]*ir.BasicBlock{}
	for _, p := range fn.Params {
		defBlock[ir.VarKey{Name: p.Name, Version: 0}] = fn.Entry
	}
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Output != nil {
				defBlock[inst.Output.Key()] = b
			}
		}
	}

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Opcode == ir.OpPhi {
				for _, pair := range inst.PhiOperands() {
					v, ok := pair.Value.(*ir.Variable)
					if !ok {
						continue
					}
					if err := checkDominatesPred(dom, defBlock, v, pair.Label, fn); err != nil {
						return fmt.Errorf("phi %s in %s: %w", inst.Output.String(), b.Label, err)
					}
				}
				continue
			}
			for _, idx := range inst.VariableOperands() {
				v := inst.Operands[idx].(*ir.Variable)
				if err := checkDominatesUse(dom, defBlock, v, b); err != nil {
					return fmt.Errorf("instruction %s in %s: %w", inst.Opcode, b.Label, err)
				}
			}
		}
	}
	return nil
}

func checkDominatesUse(dom *domtree.Result, defBlock map[ir.VarKey]*ir.BasicBlock, v *ir.Variable, use *ir.BasicBlock) error {
	d, ok := defBlock[v.Key()]
	if !ok {
		return fmt.Errorf("variable %s has no definition in this function", v.String())
	}
	if !dom.Dominates(d, use) {
		return fmt.Errorf("definition of %s in block %s does not dominate use in block %s", v.String(), d.Label, use.Label)
	}
	return nil
}

func checkDominatesPred(dom *domtree.Result, defBlock map[ir.VarKey]*ir.BasicBlock, v *ir.Variable, predLabel *ir.Label, fn *ir.Function) error {
	d, ok := defBlock[v.Key()]
	if !ok {
		return fmt.Errorf("variable %s has no definition in this function", v.String())
	}
	pred := fn.Block(predLabel.Name)
	if pred == nil {
		return fmt.Errorf("predecessor label %s does not name a block in this function", predLabel.Name)
	}
	if !dom.Dominates(d, pred) {
		return fmt.Errorf("definition of %s in block %s does not dominate predecessor block %s", v.String(), d.Label, pred.Label)
	}
	return nil
}
