package ir

// Effect describes a side effect an instruction may have, consumed by the
// (out of scope for this core) optimizer to decide when it's safe to
// reorder, hoist, or eliminate an instruction. Carried over from the
// teacher's effects model because it is small, general, and gives the
// domain instruction catalog real texture without pulling in the whole
// optimization pipeline.
type Effect interface {
	EffectKind() string
}

type StorageEffect struct {
	Type string // "read" or "write"
	Slot int    // -1 for a dynamic/keyed slot
}

func (s *StorageEffect) EffectKind() string { return "storage" }

type MemoryEffectType string

const (
	MemoryEffectRead  MemoryEffectType = "read"
	MemoryEffectWrite MemoryEffectType = "write"
)

type MemoryEffectOp struct {
	Type   MemoryEffectType
	Region string // the abstract address Variable's name, "" if not statically known
}

func (m *MemoryEffectOp) EffectKind() string { return "memory" }

type PureEffect struct{}

func (p *PureEffect) EffectKind() string { return "pure" }

// GetEffects reports the side effects of an instruction by opcode. Opcodes
// with no case here (including phi) are pure by construction: phi selects
// among already-computed values and has no effect of its own.
func (i *Instruction) GetEffects() []Effect {
	switch i.Opcode {
	case OpSLoad, OpKeyedSLoad:
		return []Effect{&StorageEffect{Type: "read", Slot: -1}}
	case OpSStore, OpKeyedSStore:
		return []Effect{&StorageEffect{Type: "write", Slot: -1}}
	case OpLoad:
		return []Effect{&MemoryEffectOp{Type: MemoryEffectRead, Region: i.addressOperandName()}}
	case OpStore:
		return []Effect{&MemoryEffectOp{Type: MemoryEffectWrite, Region: i.addressOperandName()}}
	case OpCall, OpEmit, OpRequire, OpRevert, OpReturn:
		return []Effect{&StorageEffect{Type: "write", Slot: -1}, &MemoryEffectOp{Type: MemoryEffectWrite}}
	default:
		return []Effect{&PureEffect{}}
	}
}

// addressOperandName returns the name of a load/store's address operand
// (its first operand), or "" if it has none or the operand isn't a
// Variable (e.g. not yet filled in by a constructor, as in tests that
// build a bare Instruction to exercise GetEffects).
func (i *Instruction) addressOperandName() string {
	if len(i.Operands) == 0 {
		return ""
	}
	v, ok := i.Operands[0].(*Variable)
	if !ok {
		return ""
	}
	return v.Name
}
