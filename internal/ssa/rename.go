package ssa

import "github.com/lumenvm/lumen/internal/ir"

// initStacks seeds the per-name rename state (SPEC_FULL.md §4.6
// initialization): every variable that appears in defs gets counter 0 and
// a stack seeded with version 0, matching a not-yet-renamed read of it
// dominating nothing. Variables with no entry here (e.g. function
// parameters, which are never an instruction output) are left untouched
// by latestVersion.
func (p *pass) initStacks() {
	for _, name := range p.defsOrder {
		p.counter[name] = 0
		p.stack[name] = []int{0}
	}
}

// latestVersion returns u renamed to the version on top of its name's
// stack. A name with no stack at all was never assigned by the pass, so
// per the "latest_version_of(v) = v (untouched)" invariant it is returned
// unchanged. An empty (but present) stack is a renaming inconsistency: a
// read with no dominating definition, which is fatal.
func (p *pass) latestVersion(u *ir.Variable) *ir.Variable {
	stack, tracked := p.stack[u.Name]
	if !tracked {
		return u
	}
	if len(stack) == 0 {
		raiseRenameUnderflow(u.Name)
	}
	return u.WithVersion(stack[len(stack)-1])
}

// renameTask is one unit of the explicit work stack that replaces call
// recursion for the dominator-tree walk (SPEC_FULL.md §9): entering a
// block runs its pre-action and step 2 immediately and schedules a
// post-action to run only after every descendant in its dominator subtree
// has been fully processed.
type renameTask struct {
	enter    *ir.BasicBlock // non-nil for an "enter block" task
	popNames []string       // names to pop for a "post-action" task (enter == nil); may be empty
}

// rename performs SPEC_FULL.md §4.6's single recursive dominator-tree
// walk without using the Go call stack: entering block b rewrites its
// non-phi operands and assigns fresh output versions (step 1), patches
// successor phis' incoming-value slots for b's edge (step 2), and defers
// the per-name stack pops (step 4) until after b's dominator-tree children
// (step 3) have all been visited — preserving the push/pop nesting the
// stack-per-name discipline depends on regardless of whether the walk is
// expressed as recursion or an explicit stack.
func (p *pass) rename(entry *ir.BasicBlock) {
	stack := []renameTask{{enter: entry}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if task.enter == nil {
			for _, name := range task.popNames {
				s := p.stack[name]
				p.stack[name] = s[:len(s)-1]
			}
			continue
		}

		b := task.enter
		outs := p.renameBlock(b)
		stack = append(stack, renameTask{popNames: outs})

		children := p.dom.Children(b)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, renameTask{enter: children[i]})
		}
	}
}

// renameBlock runs steps 1 and 2 of the walk described on rename for a single block and returns
// the variable names it pushed a fresh version for, so the caller can pop
// them once b's dominator subtree is done.
func (p *pass) renameBlock(b *ir.BasicBlock) []string {
	var outs []string

	// Step 1: rewrite non-phi operands to the dominating definition, then
	// assign this instruction's own output a fresh version.
	for _, inst := range b.Instructions {
		if inst.Opcode != ir.OpPhi {
			for _, idx := range inst.VariableOperands() {
				u := inst.Operands[idx].(*ir.Variable)
				inst.Operands[idx] = p.latestVersion(u)
			}
		}

		if inst.Output == nil {
			continue
		}
		name := inst.Output.Name
		i := p.counter[name]
		p.stack[name] = append(p.stack[name], i)
		p.counter[name] = i + 1
		inst.Output = inst.Output.WithVersion(i)
		outs = append(outs, name)
	}

	// Step 2: patch the incoming-value slot of every phi in a successor
	// that corresponds to the edge from b.
	for _, s := range b.CfgOut {
		for _, phiInst := range s.Phis() {
			pairs := phiInst.PhiOperands()
			for idx, pair := range pairs {
				if pair.Label.Name != b.Label {
					continue
				}
				u, ok := pair.Value.(*ir.Variable)
				if !ok {
					raiseMalformedPhi()
				}
				pairs[idx].Value = p.latestVersion(u)
			}
			phiInst.SetPhiOperands(pairs)
		}
	}

	return outs
}
