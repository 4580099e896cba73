package irtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenvm/lumen/internal/ir"
)

func TestParseFunction_StraightLine(t *testing.T) {
	src := `
fn f(a: U256) -> U256 {
%entry:
	x = add a, 1
	jump -> exit
%exit:
	return x
}
`
	fn, err := ParseFunction("t.lir", src)
	require.NoError(t, err)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, ir.IntType{Bits: 256}, fn.Params[0].Type)
	assert.Equal(t, ir.IntType{Bits: 256}, fn.ReturnType)

	require.Len(t, fn.Blocks, 2)
	entry := fn.Blocks[0]
	assert.Equal(t, "entry", entry.Label)
	require.Len(t, entry.Instructions, 2)

	add := entry.Instructions[0]
	assert.Equal(t, ir.OpAdd, add.Opcode)
	require.NotNil(t, add.Output)
	assert.Equal(t, "x", add.Output.Name)
	require.Len(t, add.Operands, 2)
	assert.Equal(t, "a", add.Operands[0].(*ir.Variable).Name)
	assert.Equal(t, int64(1), add.Operands[1].(*ir.Literal).Value)

	jump := entry.Instructions[1]
	assert.Equal(t, ir.OpJump, jump.Opcode)
	require.Len(t, jump.Targets, 1)
	assert.Equal(t, "exit", jump.Targets[0].Name)

	exit := fn.Blocks[1]
	require.Len(t, exit.Instructions, 1)
	ret := exit.Instructions[0]
	assert.Equal(t, ir.OpReturn, ret.Opcode)
	require.Len(t, ret.Operands, 1)
	assert.Equal(t, "x", ret.Operands[0].(*ir.Variable).Name)
}

func TestParseFunction_BranchAndPhi(t *testing.T) {
	src := `
fn g(cond: Bool) -> U256 {
%entry:
	branch cond -> left, right
%left:
	x = const 1
	jump -> merge
%right:
	x = const 2
	jump -> merge
%merge:
	y = phi left: x, right: x
	return y
}
`
	fn, err := ParseFunction("t.lir", src)
	require.NoError(t, err)
	require.Len(t, fn.Blocks, 4)

	entry := fn.Blocks[0]
	require.Len(t, entry.Instructions, 1)
	branch := entry.Instructions[0]
	assert.Equal(t, ir.OpBranch, branch.Opcode)
	require.Len(t, branch.Operands, 1)
	require.Len(t, branch.Targets, 2)
	assert.Equal(t, "left", branch.Targets[0].Name)
	assert.Equal(t, "right", branch.Targets[1].Name)

	merge := fn.Blocks[3]
	require.Len(t, merge.Instructions, 2)
	phi := merge.Instructions[0]
	assert.Equal(t, ir.OpPhi, phi.Opcode)
	pairs := phi.PhiOperands()
	require.Len(t, pairs, 2)
	assert.Equal(t, "left", pairs[0].Label.Name)
	assert.Equal(t, "right", pairs[1].Label.Name)
}

func TestParseFunction_VersionedVariableOperand(t *testing.T) {
	src := `
fn h() {
%entry:
	x.1 = const 5
	y = add x.1, x.1
	revert
}
`
	fn, err := ParseFunction("t.lir", src)
	require.NoError(t, err)
	entry := fn.Blocks[0]
	require.Len(t, entry.Instructions, 3)

	def := entry.Instructions[0]
	require.NotNil(t, def.Output)
	assert.Equal(t, 1, def.Output.Version)

	use := entry.Instructions[1]
	require.Len(t, use.Operands, 2)
	assert.Equal(t, 1, use.Operands[0].(*ir.Variable).Version)

	revert := entry.Instructions[2]
	assert.Equal(t, ir.OpRevert, revert.Opcode)
}

func TestParseFunction_SlotsType(t *testing.T) {
	src := `
fn i(balances: Slots<Address, U256>) {
%entry:
	revert
}
`
	fn, err := ParseFunction("t.lir", src)
	require.NoError(t, err)
	require.Len(t, fn.Params, 1)
	slots, ok := fn.Params[0].Type.(ir.SlotsType)
	require.True(t, ok)
	assert.Equal(t, ir.AddressType{}, slots.KeyType)
	assert.Equal(t, ir.IntType{Bits: 256}, slots.ValueType)
}

func TestParseFunction_StringLiteral(t *testing.T) {
	src := `
fn j() {
%entry:
	emit "transfer failed"
	revert
}
`
	fn, err := ParseFunction("t.lir", src)
	require.NoError(t, err)
	emit := fn.Blocks[0].Instructions[0]
	require.Len(t, emit.Operands, 1)
	assert.Equal(t, "transfer failed", emit.Operands[0].(*ir.Literal).Value)
}

func TestParseString_RejectsMoreThanOneFunctionViaParseFunction(t *testing.T) {
	src := `
fn a() { %entry: revert }
fn b() { %entry: revert }
`
	_, err := ParseFunction("t.lir", src)
	assert.Error(t, err)
}

func TestParseString_SyntaxErrorReturnsError(t *testing.T) {
	src := `fn broken( {`
	_, err := ParseString("t.lir", src)
	assert.Error(t, err)
}
