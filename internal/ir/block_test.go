package ir

import "testing"

func TestInsertInstruction_AtHead(t *testing.T) {
	b := NewBasicBlock("B")
	first := NewInstruction(OpAdd, nil, NewVariable("x", nil))
	b.AddInstruction(first)

	phi := NewPhi(NewVariable("y", nil))
	b.InsertInstruction(phi, 0)

	if len(b.Instructions) != 2 || b.Instructions[0] != phi || b.Instructions[1] != first {
		t.Fatalf("expected [phi, first], got %+v", b.Instructions)
	}
	if phi.Block != b {
		t.Fatal("InsertInstruction must set inst.Block")
	}
}

func TestRemoveInstruction_NoOpIfAbsent(t *testing.T) {
	b := NewBasicBlock("B")
	other := NewInstruction(OpAdd, nil, nil)
	b.RemoveInstruction(other) // must not panic
	if len(b.Instructions) != 0 {
		t.Fatalf("expected no instructions, got %+v", b.Instructions)
	}
}

func TestRemoveInstruction_ClearsBlock(t *testing.T) {
	b := NewBasicBlock("B")
	inst := NewInstruction(OpAdd, nil, nil)
	b.AddInstruction(inst)
	b.RemoveInstruction(inst)
	if len(b.Instructions) != 0 {
		t.Fatal("expected instruction removed")
	}
	if inst.Block != nil {
		t.Fatal("expected Block cleared on removal")
	}
}

func TestTerminator(t *testing.T) {
	b := NewBasicBlock("B")
	if b.Terminator() != nil {
		t.Fatal("empty block has no terminator")
	}
	b.AddInstruction(NewInstruction(OpAdd, nil, nil))
	if b.Terminator() != nil {
		t.Fatal("a non-terminating last instruction must not be reported as one")
	}
	jmp := NewJump(&Label{Name: "C"})
	b.AddInstruction(jmp)
	if b.Terminator() != jmp {
		t.Fatal("expected the jump to be reported as the terminator")
	}
}

func TestGetAssignments_DedupesNames(t *testing.T) {
	b := NewBasicBlock("B")
	b.AddInstruction(NewInstruction(OpConst, nil, NewVariable("x", nil)))
	b.AddInstruction(NewInstruction(OpConst, nil, NewVariable("x", nil)))
	b.AddInstruction(NewInstruction(OpConst, nil, NewVariable("y", nil)))

	names := b.GetAssignments()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Fatalf("expected [x y], got %v", names)
	}
}

func TestPhis_LeadingRunOnly(t *testing.T) {
	b := NewBasicBlock("B")
	phi1 := NewPhi(NewVariable("x", nil))
	phi2 := NewPhi(NewVariable("y", nil))
	b.AddInstruction(phi1)
	b.AddInstruction(phi2)
	b.AddInstruction(NewInstruction(OpAdd, nil, nil))
	trailingPhi := NewPhi(NewVariable("z", nil))
	b.AddInstruction(trailingPhi) // malformed input: phi after non-phi

	phis := b.Phis()
	if len(phis) != 2 || phis[0] != phi1 || phis[1] != phi2 {
		t.Fatalf("Phis() must stop at the first non-phi, got %+v", phis)
	}
}
