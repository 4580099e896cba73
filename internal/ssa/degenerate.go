package ssa

import "github.com/lumenvm/lumen/internal/ir"

// removeDegeneratePhis walks the dominator tree from entry (iteratively,
// same rationale as rename) discarding self-referencing operand pairs from
// every phi and deleting any phi left with zero or one real incoming edge
// (SPEC_FULL.md §4.6): a phi with no operands left is dead; one with
// exactly one is a copy SSA's single-definition property already makes
// redundant.
func (p *pass) removeDegeneratePhis(entry *ir.BasicBlock) {
	stack := []*ir.BasicBlock{entry}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, inst := range append([]*ir.Instruction(nil), b.Instructions...) {
			if inst.Opcode != ir.OpPhi {
				continue
			}

			pairs := inst.PhiOperands()
			kept := make([]ir.PhiPair, 0, len(pairs))
			for _, pair := range pairs {
				if sameVariable(pair.Value, inst.Output) {
					continue
				}
				kept = append(kept, pair)
			}

			switch len(kept) {
			case 0, 1:
				b.RemoveInstruction(inst)
			default:
				inst.SetPhiOperands(kept)
			}
		}

		children := p.dom.Children(b)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

func sameVariable(op ir.Operand, output *ir.Variable) bool {
	v, ok := op.(*ir.Variable)
	if !ok || output == nil {
		return false
	}
	return v.Name == output.Name && v.Version == output.Version
}
