package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenvm/lumen/internal/irtext"
)

func TestVerifyDominance_ParameterReadDoesNotFail(t *testing.T) {
	src := `
fn f(a: U256) -> U256 {
%entry:
	x = add a, 1
	return x
}
`
	fn, err := irtext.ParseFunction("t.lir", src)
	require.NoError(t, err)

	cache := MakeSSA(fn)
	assert.NoError(t, VerifyDominance(fn, cache))
}

func TestVerifyDominance_ParameterReadAcrossBlocksDoesNotFail(t *testing.T) {
	src := `
fn g(cond: Bool, a: U256) -> U256 {
%entry:
	branch cond -> left, right
%left:
	x = add a, 1
	jump -> merge
%right:
	x = add a, 2
	jump -> merge
%merge:
	y = phi left: x, right: x
	return y
}
`
	fn, err := irtext.ParseFunction("t.lir", src)
	require.NoError(t, err)

	cache := MakeSSA(fn)
	assert.NoError(t, VerifyDominance(fn, cache))
}

func TestVerifyDominance_PassesOnWellFormedDiamond(t *testing.T) {
	src := `
fn h(cond: Bool) -> U256 {
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
	fn, err := irtext.ParseFunction("t.lir", src)
	require.NoError(t, err)

	cache := MakeSSA(fn)
	assert.NoError(t, VerifyDominance(fn, cache))
}
