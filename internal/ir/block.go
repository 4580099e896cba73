package ir

// BasicBlock is a maximal straight-line instruction sequence with a single
// entry and (via its terminator) a single logical exit. Instructions is
// kept in program order with every phi (if any) preceding every non-phi
// instruction, an invariant the SSA pass establishes and degenerate-phi
// removal preserves.
type BasicBlock struct {
	Label        string
	Instructions []*Instruction

	// CfgIn/CfgOut are populated by cfganalysis.Build; insertion order is
	// the CFG predecessor/successor order the dominator, liveness, and
	// SSA passes all rely on for deterministic output.
	CfgIn  []*BasicBlock
	CfgOut []*BasicBlock

	// LiveIn is populated by liveness.Build: the set of variable names
	// (pre-rename identity) that may be used along some path starting at
	// this block before being redefined.
	LiveIn map[string]bool
}

// NewBasicBlock creates an empty block with the given label.
func NewBasicBlock(label string) *BasicBlock {
	return &BasicBlock{Label: label, LiveIn: map[string]bool{}}
}

// InsertInstruction inserts inst at position idx of the block's
// instruction list, shifting later instructions down. idx == 0 is how the
// SSA pass places new phi instructions at the head of a block.
func (b *BasicBlock) InsertInstruction(inst *Instruction, idx int) {
	inst.Block = b
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[idx+1:], b.Instructions[idx:])
	b.Instructions[idx] = inst
}

// AddInstruction appends inst to the end of the block.
func (b *BasicBlock) AddInstruction(inst *Instruction) {
	inst.Block = b
	b.Instructions = append(b.Instructions, inst)
}

// RemoveInstruction deletes inst from the block's instruction list. It is
// a no-op if inst is not present (callers that already hold a stale
// reference, e.g. after a prior removal, don't need to guard the call).
func (b *BasicBlock) RemoveInstruction(inst *Instruction) {
	for idx, candidate := range b.Instructions {
		if candidate == inst {
			b.Instructions = append(b.Instructions[:idx], b.Instructions[idx+1:]...)
			inst.Block = nil
			return
		}
	}
}

// Terminator returns the block's last instruction if it is a terminator,
// or nil if the block has no instructions or does not end in one yet
// (callers building a function incrementally may observe the latter).
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if last.Opcode.IsTerminator() {
		return last
	}
	return nil
}

// GetAssignments returns the set of output variable names this block
// assigns, one entry per distinct name (a block may contain at most one
// instruction per output name once in SSA form, but pre-renaming a name
// may legitimately be assigned more than once in the same block — this
// still contributes a single def-site entry, since phi placement only
// cares about "does block b define v at all").
func (b *BasicBlock) GetAssignments() []string {
	seen := map[string]bool{}
	var names []string
	for _, inst := range b.Instructions {
		if inst.Output == nil {
			continue
		}
		if seen[inst.Output.Name] {
			continue
		}
		seen[inst.Output.Name] = true
		names = append(names, inst.Output.Name)
	}
	return names
}

// Phis returns the leading run of phi instructions in the block.
func (b *BasicBlock) Phis() []*Instruction {
	var phis []*Instruction
	for _, inst := range b.Instructions {
		if inst.Opcode != OpPhi {
			break
		}
		phis = append(phis, inst)
	}
	return phis
}

func (b *BasicBlock) String() string { return b.Label }
