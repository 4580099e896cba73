// Package domtree computes dominator-tree analysis results: immediate
// dominators, dominator-tree descendant sets, dominance frontiers, and a
// deterministic dominator-tree post-order — the results the SSA
// construction pass's phi-placement and renaming walks are built on.
//
// The immediate-dominator computation is the iterative algorithm of
// Cooper, Harvey, and Kennedy ("A Simple, Fast Dominance Algorithm", 2001),
// grounded in the reference pack's aclements-go-misc/obj/internal/graph/dom.go
// (its own IDom/intersect implementation of the same paper): a
// reverse-postorder numbering plus repeated pairwise intersection until no
// idom changes. Dominance frontiers use the direct per-block formulation
// from Cytron et al. 1991, the same definition golang.org/x/tools/go/ssa's
// lift.go domFrontier.build documents (present in the pack as
// tmc-mirror-go.tools/ssa/lift.go).
package domtree

import (
	"github.com/lumenvm/lumen/internal/analysis"
	"github.com/lumenvm/lumen/internal/cfganalysis"
	"github.com/lumenvm/lumen/internal/ir"
)

// Result is the dominator analysis's cached product.
type Result struct {
	Entry *ir.BasicBlock

	idom       map[*ir.BasicBlock]*ir.BasicBlock
	children   map[*ir.BasicBlock][]*ir.BasicBlock
	frontiers  map[*ir.BasicBlock][]*ir.BasicBlock
	dominated  map[*ir.BasicBlock][]*ir.BasicBlock
	domPostOrd []*ir.BasicBlock
}

// Idom returns b's immediate dominator, or nil for the entry block.
func (r *Result) Idom(b *ir.BasicBlock) *ir.BasicBlock { return r.idom[b] }

// Dominated returns the blocks strictly or non-strictly dominated by b:
// b itself plus every descendant in the dominator tree, in a stable
// (dominator-tree pre-order) sequence.
func (r *Result) Dominated(b *ir.BasicBlock) []*ir.BasicBlock { return r.dominated[b] }

// Children returns b's immediate children in the dominator tree, in a
// stable (CFG-successor discovery) order. The SSA pass's renaming and
// degenerate-phi-removal walks recurse over this, one tree level at a
// time — using Dominated's full transitive set instead would re-visit
// every descendant once per ancestor.
func (r *Result) Children(b *ir.BasicBlock) []*ir.BasicBlock { return r.children[b] }

// DominatorFrontiers returns the dominance frontier of b: blocks d such
// that b dominates a predecessor of d but does not strictly dominate d.
func (r *Result) DominatorFrontiers(b *ir.BasicBlock) []*ir.BasicBlock { return r.frontiers[b] }

// DomPostOrder returns a deterministic post-order traversal of the
// dominator tree: each node's children, in Children order, each followed
// by its own subtree, precede the node itself.
func (r *Result) DomPostOrder() []*ir.BasicBlock { return r.domPostOrd }

// Dominates reports whether a (non-strictly) dominates b.
func (r *Result) Dominates(a, b *ir.BasicBlock) bool {
	for cur := b; cur != nil; cur = r.idom[cur] {
		if cur == a {
			return true
		}
		if cur == r.Entry {
			break
		}
	}
	return a == b
}

// Build computes the dominator-tree analysis for fn, given cfg (the
// already-populated CFG analysis result providing reachable blocks in a
// stable order and each block's CfgIn/CfgOut).
func Build(fn *ir.Function, cfg *cfganalysis.Result) *Result {
	blocks := cfg.Blocks
	entry := cfg.Entry

	postorder := computePostorder(entry)
	postNum := make(map[*ir.BasicBlock]int, len(postorder))
	for i, b := range postorder {
		postNum[b] = i
	}

	idom := make(map[*ir.BasicBlock]*ir.BasicBlock, len(blocks))
	idom[entry] = entry

	// Reverse-postorder, excluding entry, is the fixed-point iteration
	// order: postorder[len-1] is entry itself.
	rpo := make([]*ir.BasicBlock, 0, len(postorder))
	for i := len(postorder) - 1; i >= 0; i-- {
		if postorder[i] != entry {
			rpo = append(rpo, postorder[i])
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range rpo {
			var newIdom *ir.BasicBlock
			for _, p := range b.CfgIn {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, postNum, idom)
			}
			if newIdom == nil {
				continue
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	idom[entry] = nil // the entry block has no dominator

	children := make(map[*ir.BasicBlock][]*ir.BasicBlock, len(blocks))
	for _, b := range blocks {
		parent := idom[b]
		if parent == nil {
			continue
		}
		children[parent] = append(children[parent], b)
	}

	frontiers := computeFrontiers(blocks, idom)

	r := &Result{
		Entry:     entry,
		idom:      idom,
		children:  children,
		frontiers: frontiers,
	}
	r.dominated = computeDominated(entry, children)
	r.domPostOrd = computeDomPostOrder(entry, children)
	return r
}

// computePostorder performs an iterative DFS from entry over CFG successor
// edges, returning blocks in postorder (children's postorder entries
// precede their parent's), matching the teacher-domain style used in
// cmd/compile/internal/ssa/dom.go's postorderWithNumbering.
func computePostorder(entry *ir.BasicBlock) []*ir.BasicBlock {
	type frame struct {
		b   *ir.BasicBlock
		idx int
	}
	visited := map[*ir.BasicBlock]bool{entry: true}
	order := make([]*ir.BasicBlock, 0)
	stack := []frame{{b: entry}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.idx < len(top.b.CfgOut) {
			succ := top.b.CfgOut[top.idx]
			top.idx++
			if !visited[succ] {
				visited[succ] = true
				stack = append(stack, frame{b: succ})
			}
			continue
		}
		order = append(order, top.b)
		stack = stack[:len(stack)-1]
	}
	return order
}

// intersect finds the closest common dominator of b and c using their
// postorder numbers: the finger with the smaller number always belongs to
// a block nearer the leaves, so it walks up to its idom until the two
// fingers meet.
func intersect(b, c *ir.BasicBlock, postNum map[*ir.BasicBlock]int, idom map[*ir.BasicBlock]*ir.BasicBlock) *ir.BasicBlock {
	for b != c {
		for postNum[b] < postNum[c] {
			b = idom[b]
		}
		for postNum[c] < postNum[b] {
			c = idom[c]
		}
	}
	return b
}

// computeFrontiers implements the classical Cytron et al. 1991 dominance
// frontier computation directly from idom and CFG predecessor sets: a
// block with two or more predecessors is a join point, and every
// predecessor's dominator-tree ancestors up to (but excluding) the join's
// immediate dominator have the join in their frontier.
func computeFrontiers(blocks []*ir.BasicBlock, idom map[*ir.BasicBlock]*ir.BasicBlock) map[*ir.BasicBlock][]*ir.BasicBlock {
	frontiers := make(map[*ir.BasicBlock][]*ir.BasicBlock, len(blocks))
	seen := make(map[*ir.BasicBlock]map[*ir.BasicBlock]bool, len(blocks))
	add := func(runner, b *ir.BasicBlock) {
		if seen[runner] == nil {
			seen[runner] = map[*ir.BasicBlock]bool{}
		}
		if seen[runner][b] {
			return
		}
		seen[runner][b] = true
		frontiers[runner] = append(frontiers[runner], b)
	}

	for _, b := range blocks {
		if len(b.CfgIn) < 2 {
			continue
		}
		idomB := idom[b]
		for _, p := range b.CfgIn {
			for runner := p; runner != nil && runner != idomB; runner = idom[runner] {
				add(runner, b)
			}
		}
	}
	return frontiers
}

func computeDominated(entry *ir.BasicBlock, children map[*ir.BasicBlock][]*ir.BasicBlock) map[*ir.BasicBlock][]*ir.BasicBlock {
	dominated := map[*ir.BasicBlock][]*ir.BasicBlock{}
	var collect func(root, cur *ir.BasicBlock)
	collect = func(root, cur *ir.BasicBlock) {
		dominated[root] = append(dominated[root], cur)
		for _, child := range children[cur] {
			collect(root, child)
		}
	}

	var visitAll func(b *ir.BasicBlock)
	visitAll = func(b *ir.BasicBlock) {
		collect(b, b)
		for _, child := range children[b] {
			visitAll(child)
		}
	}
	visitAll(entry)
	return dominated
}

func computeDomPostOrder(entry *ir.BasicBlock, children map[*ir.BasicBlock][]*ir.BasicBlock) []*ir.BasicBlock {
	order := make([]*ir.BasicBlock, 0)
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		for _, child := range children[b] {
			visit(child)
		}
		order = append(order, b)
	}
	visit(entry)
	return order
}

// Register wires Build into cache as the DominatorTreeAnalysis
// constructor; it requests CFGAnalysis itself so callers only need to
// request DominatorTreeAnalysis.
func Register(cache *analysis.Cache) {
	cache.Register(analysis.DominatorTreeAnalysis, func(fn *ir.Function) any {
		cfg := cache.Request(fn, analysis.CFGAnalysis).(*cfganalysis.Result)
		return Build(fn, cfg)
	})
}
