package ir

import "testing"

func TestGetEffects_StorageAndMemory(t *testing.T) {
	cases := []struct {
		op   Opcode
		kind string
	}{
		{OpSLoad, "storage"},
		{OpSStore, "storage"},
		{OpKeyedSLoad, "storage"},
		{OpLoad, "memory"},
		{OpStore, "memory"},
		{OpAdd, "pure"},
		{OpPhi, "pure"},
	}
	for _, c := range cases {
		inst := NewInstruction(c.op, nil, nil)
		effects := inst.GetEffects()
		if len(effects) == 0 {
			t.Fatalf("%s: expected at least one effect", c.op)
		}
		if got := effects[0].EffectKind(); got != c.kind {
			t.Errorf("%s: EffectKind() = %q, want %q", c.op, got, c.kind)
		}
	}
}
