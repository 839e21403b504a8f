package interp

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Define("a", 1.0); err != nil {
		t.Fatalf("define: %v", err)
	}
	val, err := env.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != 1.0 {
		t.Errorf("got %v, want 1", val)
	}
}

func TestDefineTwiceInSameScope(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", 1.0)
	err := env.Define("a", 2.0)
	if errors.Cause(err) != ErrRedefined {
		t.Errorf("got %v, want ErrRedefined", err)
	}
}

func TestShadowingInChildScope(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("a", "outer")
	child := NewEnvironment(parent)
	if err := child.Define("a", "inner"); err != nil {
		t.Fatalf("shadowing must be allowed: %v", err)
	}
	if val, _ := child.Get("a"); val != "inner" {
		t.Errorf("child sees %v, want inner", val)
	}
	if val, _ := parent.Get("a"); val != "outer" {
		t.Errorf("parent sees %v, want outer", val)
	}
}

func TestGetUndefined(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))
	if _, err := env.Get("missing"); errors.Cause(err) != ErrUndefined {
		t.Errorf("got %v, want ErrUndefined", err)
	}
	if err := env.Assign("missing", 1.0); errors.Cause(err) != ErrUndefined {
		t.Errorf("got %v, want ErrUndefined", err)
	}
}

func TestAssignWalksOutward(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("a", 1.0)
	child := NewEnvironment(parent)
	if err := child.Assign("a", 2.0); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if val, _ := parent.Get("a"); val != 2.0 {
		t.Errorf("got %v, want 2", val)
	}
}

func TestAtDistance(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", "global")
	middle := NewEnvironment(global)
	middle.Define("a", "middle")
	inner := NewEnvironment(middle)

	if val := inner.GetAt(1, "a"); val != "middle" {
		t.Errorf("GetAt(1) = %v, want middle", val)
	}
	if val := inner.GetAt(2, "a"); val != "global" {
		t.Errorf("GetAt(2) = %v, want global", val)
	}

	inner.AssignAt(2, "a", "changed")
	if val, _ := global.Get("a"); val != "changed" {
		t.Errorf("global a = %v, want changed", val)
	}
	if val, _ := middle.Get("a"); val != "middle" {
		t.Errorf("middle a = %v, want middle", val)
	}
}

func TestDistanceBeyondChainPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for distance beyond the chain")
		}
	}()
	NewEnvironment(nil).GetAt(3, "a")
}

func TestNames(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("zeta", nil)
	env.Define("alpha", nil)
	env.Define("clock", nil)

	want := []string{"alpha", "clock", "zeta"}
	if diff := pretty.Diff(env.Names(), want); len(diff) > 0 {
		t.Errorf("names: %v", diff)
	}
}
