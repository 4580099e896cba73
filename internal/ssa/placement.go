package ssa

import "github.com/lumenvm/lumen/internal/ir"

// placePhis implements the iterated-dominance-frontier worklist algorithm
// of SPEC_FULL.md §4.6 (Cytron et al.): each variable gets a monotonically
// increasing iteration index; has_already[d] >= i means phi placement for
// the variable at index i was already attempted at d (whether or not the
// liveness filter let a phi through), which is what lets the worklist converge without a separate visited set
// per variable.
func (p *pass) placePhis() {
	work := map[*ir.BasicBlock]int{}
	hasAlready := map[*ir.BasicBlock]int{}

	i := 0
	for _, name := range p.defsOrder {
		i++

		worklist := append([]*ir.BasicBlock{}, p.defBlocks[name]...)
		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]

			for _, d := range p.dom.DominatorFrontiers(b) {
				if hasAlready[d] >= i {
					continue
				}

				p.placePhi(name, d)
				hasAlready[d] = i

				if work[d] < i {
					work[d] = i
					worklist = append(worklist, d)
				}
			}
		}
	}
}

// placePhi inserts a phi for variable name in block d, but only if name is
// live-in at d (the semi-pruned placement filter of SPEC_FULL.md §4.6).
// Operands are built from d's current cfg_in, skipping a self-predecessor
// edge (d appearing as its own predecessor) — the operand arity this
// leaves is accounted for by degenerate-phi removal later.
func (p *pass) placePhi(name string, d *ir.BasicBlock) {
	if !d.LiveIn[name] {
		return
	}
	for _, existing := range d.Phis() {
		if existing.Output.Name == name {
			// Running the pass again over already-SSA input (SPEC_FULL.md
			// §8's round-trip property): d already carries the merge point
			// for name, so placement is a no-op rather than stacking a
			// second, redundant phi in front of it.
			return
		}
	}

	typ := p.varTypes[name]
	output := &ir.Variable{Name: name, Type: typ}
	phi := ir.NewPhi(output)
	for _, pred := range d.CfgIn {
		if pred == d {
			continue
		}
		phi.AddPhiOperand(&ir.Label{Name: pred.Label}, &ir.Variable{Name: name, Type: typ})
	}
	d.InsertInstruction(phi, 0)
}
