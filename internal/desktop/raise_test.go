package desktop

import "testing"

func TestRaiseToFront_DeiconifiesSelectsAndRaises(t *testing.T) {
	m := NewMemory(800, 600)
	target := m.AddFrame(FrameSpec{Title: "target", Iconified: true})
	m.AddFrame(FrameSpec{Title: "top"})

	RaiseToFront(target, m)

	if target.Iconified() {
		t.Fatalf("expected frame to be deiconified")
	}
	if sel := m.SelectedWindow(); sel == nil || sel.ID() != target.ID() {
		t.Fatalf("expected target selected, got %v", sel)
	}
	stack := m.Stacking()
	if stack[len(stack)-1] != target.ID() {
		t.Fatalf("expected target on top, got stacking %v", stack)
	}
}

func TestRaiseToFront_NilFrameIsIgnored(t *testing.T) {
	m := NewMemory(800, 600)
	RaiseToFront(nil, m)
	if m.SelectedWindow() != nil {
		t.Fatalf("expected no selection")
	}
}
