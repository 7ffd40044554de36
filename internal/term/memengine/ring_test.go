package memengine

import "testing"

func TestLineRing_PushWithinCapacity(t *testing.T) {
	r := newLineRing(5)
	r.setLast("a")
	r.push("b")
	r.push("c")

	if got := r.len(); got != 3 {
		t.Fatalf("len() = %d, want 3", got)
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if got := r.at(i); got != w {
			t.Errorf("at(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestLineRing_OverflowDropsOldest(t *testing.T) {
	r := newLineRing(3)
	r.setLast("a")
	r.push("b")
	r.push("c")
	r.push("d")
	r.push("e")

	if got := r.len(); got != 3 {
		t.Fatalf("len() = %d, want 3", got)
	}
	want := []string{"c", "d", "e"}
	for i, w := range want {
		if got := r.at(i); got != w {
			t.Errorf("at(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestLineRing_LastMutation(t *testing.T) {
	r := newLineRing(3)
	r.appendToLast("he")
	r.appendToLast("llo")

	if got := r.last(); got != "hello" {
		t.Errorf("last() = %q, want %q", got, "hello")
	}

	r.setLast("")
	if got := r.last(); got != "" {
		t.Errorf("last() after setLast = %q, want empty", got)
	}
}

func TestLineRing_MutationAfterWrap(t *testing.T) {
	r := newLineRing(2)
	r.setLast("a")
	r.push("b")
	r.push("c")
	r.appendToLast("!")

	if got := r.at(0); got != "b" {
		t.Errorf("at(0) = %q, want %q", got, "b")
	}
	if got := r.last(); got != "c!" {
		t.Errorf("last() = %q, want %q", got, "c!")
	}
}

func TestLineRing_Reset(t *testing.T) {
	r := newLineRing(3)
	r.setLast("a")
	r.push("b")
	r.reset()

	if got := r.len(); got != 1 {
		t.Fatalf("len() after reset = %d, want 1", got)
	}
	if got := r.last(); got != "" {
		t.Errorf("last() after reset = %q, want empty", got)
	}
}

func TestLineRing_MinimumCapacity(t *testing.T) {
	r := newLineRing(0)
	r.setLast("only")
	r.push("next")

	if got := r.len(); got != 1 {
		t.Fatalf("len() = %d, want 1", got)
	}
	if got := r.last(); got != "next" {
		t.Errorf("last() = %q, want %q", got, "next")
	}
}
