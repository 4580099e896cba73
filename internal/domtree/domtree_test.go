package domtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenvm/lumen/internal/cfganalysis"
	"github.com/lumenvm/lumen/internal/ir"
)

func diamond() (a, b, c, d *ir.BasicBlock, fn *ir.Function, cfg *cfganalysis.Result) {
	a = ir.NewBasicBlock("A")
	b = ir.NewBasicBlock("B")
	c = ir.NewBasicBlock("C")
	d = ir.NewBasicBlock("D")
	a.AddInstruction(ir.NewBranch(ir.NewVariable("cond", ir.BoolType{}), &ir.Label{Name: "B"}, &ir.Label{Name: "C"}))
	b.AddInstruction(ir.NewJump(&ir.Label{Name: "D"}))
	c.AddInstruction(ir.NewJump(&ir.Label{Name: "D"}))
	d.AddInstruction(ir.NewReturn(nil))
	fn = ir.NewFunction("diamond", a, []*ir.BasicBlock{a, b, c, d})
	cfg = cfganalysis.Build(fn)
	return
}

func TestBuild_DiamondIdomsAndFrontiers(t *testing.T) {
	a, b, c, d, fn, cfg := diamond()
	res := Build(fn, cfg)

	assert.Nil(t, res.Idom(a))
	assert.Equal(t, a, res.Idom(b))
	assert.Equal(t, a, res.Idom(c))
	assert.Equal(t, a, res.Idom(d))

	assert.ElementsMatch(t, []*ir.BasicBlock{b, c, d}, res.Children(a))
	assert.Empty(t, res.Children(b))
	assert.Empty(t, res.Children(c))
	assert.Empty(t, res.Children(d))

	assert.Equal(t, []*ir.BasicBlock{d}, res.DominatorFrontiers(b))
	assert.Equal(t, []*ir.BasicBlock{d}, res.DominatorFrontiers(c))
	assert.Empty(t, res.DominatorFrontiers(a))
	assert.Empty(t, res.DominatorFrontiers(d))
}

func TestBuild_DomPostOrder_ChildrenBeforeParent(t *testing.T) {
	a, b, c, d, fn, cfg := diamond()
	res := Build(fn, cfg)

	order := res.DomPostOrder()
	index := map[*ir.BasicBlock]int{}
	for i, blk := range order {
		index[blk] = i
	}

	require.Contains(t, index, a)
	assert.Less(t, index[b], index[a])
	assert.Less(t, index[c], index[a])
	assert.Less(t, index[d], index[a])
}

func TestDominates(t *testing.T) {
	a, b, _, d, fn, cfg := diamond()
	res := Build(fn, cfg)

	assert.True(t, res.Dominates(a, d))
	assert.True(t, res.Dominates(a, a))
	assert.False(t, res.Dominates(b, d), "b does not dominate the merge block")
	assert.False(t, res.Dominates(d, a))
}

func TestDominated_IncludesSelfAndDescendants(t *testing.T) {
	a, b, c, d, fn, cfg := diamond()
	res := Build(fn, cfg)

	assert.ElementsMatch(t, []*ir.BasicBlock{a, b, c, d}, res.Dominated(a))
	assert.ElementsMatch(t, []*ir.BasicBlock{b}, res.Dominated(b))
}

// TestBuild_LoopHeaderFrontiersItself covers the self-loop shape the SSA
// pass's placement test also exercises: a block whose dominance frontier
// includes itself.
func TestBuild_LoopHeaderFrontiersItself(t *testing.T) {
	a := ir.NewBasicBlock("A")
	b := ir.NewBasicBlock("B")
	c := ir.NewBasicBlock("C")
	a.AddInstruction(ir.NewJump(&ir.Label{Name: "B"}))
	b.AddInstruction(ir.NewBranch(ir.NewVariable("cond", ir.BoolType{}), &ir.Label{Name: "B"}, &ir.Label{Name: "C"}))
	c.AddInstruction(ir.NewReturn(nil))
	fn := ir.NewFunction("selfloop", a, []*ir.BasicBlock{a, b, c})
	cfg := cfganalysis.Build(fn)

	res := Build(fn, cfg)
	assert.Contains(t, res.DominatorFrontiers(b), b)
}
