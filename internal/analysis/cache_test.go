package analysis

import (
	"testing"

	"github.com/lumenvm/lumen/internal/ir"
)

func TestRequest_CachesAndRecomputesOnInvalidate(t *testing.T) {
	c := NewCache()
	calls := 0
	c.Register(CFGAnalysis, func(fn *ir.Function) any {
		calls++
		return calls
	})

	fn := ir.NewFunction("f", nil, nil)

	first := c.Request(fn, CFGAnalysis)
	second := c.Request(fn, CFGAnalysis)
	if first != second {
		t.Fatalf("expected cached result, got %v then %v", first, second)
	}
	if calls != 1 {
		t.Fatalf("expected constructor called once, got %d", calls)
	}

	c.Invalidate(fn, CFGAnalysis)
	third := c.Request(fn, CFGAnalysis)
	if third == second {
		t.Fatal("expected recomputation after Invalidate")
	}
	if calls != 2 {
		t.Fatalf("expected constructor called twice, got %d", calls)
	}
}

func TestRequest_PanicsOnUnregisteredKind(t *testing.T) {
	c := NewCache()
	fn := ir.NewFunction("f", nil, nil)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic requesting an unregistered analysis kind")
		}
	}()
	c.Request(fn, LivenessAnalysis)
}

func TestRequest_IsolatedPerFunction(t *testing.T) {
	c := NewCache()
	calls := 0
	c.Register(CFGAnalysis, func(fn *ir.Function) any {
		calls++
		return fn.Name
	})

	a := ir.NewFunction("a", nil, nil)
	b := ir.NewFunction("b", nil, nil)

	if got := c.Request(a, CFGAnalysis); got != "a" {
		t.Fatalf("expected %q, got %v", "a", got)
	}
	if got := c.Request(b, CFGAnalysis); got != "b" {
		t.Fatalf("expected %q, got %v", "b", got)
	}
	if calls != 2 {
		t.Fatalf("expected one constructor call per function, got %d", calls)
	}
}
