package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionLeft) {
		t.Error("new frame should be empty")
	}

	f.Set(ActionLeft)
	if !f.Has(ActionLeft) || f.Has(ActionRight) {
		t.Errorf("Has() mismatch after Set(ActionLeft): %v", f.Actions)
	}

	f.Clear()
	if f.Has(ActionLeft) {
		t.Error("Clear() should drop actions")
	}

	var zero InputFrame
	if zero.Has(ActionUp) {
		t.Error("zero-value frame should have no actions")
	}
	zero.Set(ActionUndo)
	if !zero.Has(ActionUndo) {
		t.Error("Set() on zero-value frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	if ActionAutoToggle.String() != "AutoToggle" {
		t.Errorf("ActionAutoToggle.String() = %q", ActionAutoToggle.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q, want Unknown", Action(99).String())
	}
}
