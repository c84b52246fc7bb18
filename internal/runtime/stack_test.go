package runtime

import (
	"reflect"
	"testing"
)

func TestStack_Persistent(t *testing.T) {
	base := (*stack)(nil).push("⊥", "A")
	left := base.pop().push("B", "C")
	right := base.push("D")

	if got := base.symbols(); !reflect.DeepEqual(got, []string{"⊥", "A"}) {
		t.Errorf("base = %v, want [⊥ A]", got)
	}
	if got := left.symbols(); !reflect.DeepEqual(got, []string{"⊥", "B", "C"}) {
		t.Errorf("left = %v, want [⊥ B C]", got)
	}
	if got := right.symbols(); !reflect.DeepEqual(got, []string{"⊥", "A", "D"}) {
		t.Errorf("right = %v, want [⊥ A D]", got)
	}
	if left.top() != "C" || right.top() != "D" {
		t.Errorf("unexpected tops %q and %q", left.top(), right.top())
	}

	var empty *stack
	if empty.top() != "" || empty.pop() != nil {
		t.Error("empty stack should have no top and pop to nil")
	}
}
