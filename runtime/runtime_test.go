package runtime

import (
	"testing"
)

func TestNewEnvironment(t *testing.T) {
	env := NewEnvironment()
	if env == nil || env.Size() != 1 {
		t.Error("no environment arena created")
	}
	root := env.Frame(RootFrame)
	if root.Parent != NoParent {
		t.Errorf("root frame should have no parent, has %d", root.Parent)
	}
}

func TestNewFrame(t *testing.T) {
	env := NewEnvironment()
	f := env.NewFrame(RootFrame)
	if f.ID != 1 || f.Parent != RootFrame {
		t.Errorf("unexpected frame %v", f)
	}
	if env.Size() != 2 {
		t.Errorf("arena should hold 2 frames, holds %d", env.Size())
	}
}

func TestBindAndResolve(t *testing.T) {
	env := NewEnvironment()
	f := env.NewFrame(RootFrame)
	f.Bind("x", 5)
	if v, ok := f.Resolve("x"); !ok || v != 5 {
		t.Error("cannot resolve bound name in frame")
	}
	if _, ok := f.Resolve("y"); ok {
		t.Error("resolved a name that was never bound")
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	env := NewEnvironment()
	f1 := env.NewFrame(RootFrame)
	f1.Bind("x", 1)
	f2 := env.NewFrame(f1.ID)
	f3 := env.NewFrame(f2.ID)
	if v, ok := env.Lookup(f3.ID, "x"); !ok || v != 1 {
		t.Error("lookup did not find binding in ancestor frame")
	}
	if _, ok := env.Lookup(f3.ID, "y"); ok {
		t.Error("lookup found a binding that does not exist")
	}
}

func TestLookupInnermostWins(t *testing.T) {
	env := NewEnvironment()
	f1 := env.NewFrame(RootFrame)
	f1.Bind("x", 1)
	f2 := env.NewFrame(f1.ID)
	f2.Bind("x", 2)
	if v, _ := env.Lookup(f2.ID, "x"); v != 2 {
		t.Errorf("innermost binding should win, got %v", v)
	}
	if v, _ := env.Lookup(f1.ID, "x"); v != 1 {
		t.Errorf("outer frame should still see its own binding, got %v", v)
	}
}

func TestRebindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("rebinding a name should panic")
		}
	}()
	env := NewEnvironment()
	f := env.NewFrame(RootFrame)
	f.Bind("x", 1)
	f.Bind("x", 2)
}
