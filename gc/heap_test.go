package gc

import "testing"

// node is a minimal Traceable graph node for exercising the heap.
type node struct {
	name      string
	children  []*node
	finalized int
}

func (n *node) Trace(visit func(Traceable)) {
	for _, c := range n.children {
		visit(c)
	}
}

func (n *node) Finalize() { n.finalized++ }

func track(h *Heap, nodes ...*node) {
	for _, n := range nodes {
		h.Track(n)
	}
}

func TestHeapCollectUnreachable(t *testing.T) {
	h := NewHeap(HeapConfig{})
	a := &node{name: "a"}
	b := &node{name: "b"}
	c := &node{name: "c"}
	a.children = []*node{b}
	track(h, a, b, c)

	h.AddRoot(a)
	stats := h.Collect()

	if stats.Finalized != 1 {
		t.Errorf("Finalized = %d, want 1", stats.Finalized)
	}
	if c.finalized != 1 {
		t.Errorf("c finalized %d times, want 1", c.finalized)
	}
	if a.finalized != 0 || b.finalized != 0 {
		t.Error("reachable nodes should not be finalized")
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
	if h.Contains(c) {
		t.Error("c should have been forgotten")
	}

	// A second collection must not finalize c again.
	h.Collect()
	if c.finalized != 1 {
		t.Errorf("c finalized %d times after second collection, want 1", c.finalized)
	}
}

func TestHeapCycles(t *testing.T) {
	h := NewHeap(HeapConfig{})
	a := &node{name: "a"}
	b := &node{name: "b"}
	a.children = []*node{b}
	b.children = []*node{a}
	track(h, a, b)

	h.AddRoot(a)
	if stats := h.Collect(); stats.Finalized != 0 {
		t.Errorf("rooted cycle: Finalized = %d, want 0", stats.Finalized)
	}

	h.RemoveRoot(a)
	if stats := h.Collect(); stats.Finalized != 2 {
		t.Errorf("unrooted cycle: Finalized = %d, want 2", stats.Finalized)
	}
	if a.finalized != 1 || b.finalized != 1 {
		t.Errorf("finalize counts = %d, %d, want 1, 1", a.finalized, b.finalized)
	}
}

func TestHeapRootsNest(t *testing.T) {
	h := NewHeap(HeapConfig{})
	a := &node{name: "a"}
	track(h, a)

	h.AddRoot(a)
	h.AddRoot(a)
	h.RemoveRoot(a)
	h.Collect()
	if a.finalized != 0 {
		t.Fatal("a is still pinned once and must survive")
	}

	h.RemoveRoot(a)
	h.Collect()
	if a.finalized != 1 {
		t.Errorf("a finalized %d times, want 1", a.finalized)
	}
}

func TestHeapThreshold(t *testing.T) {
	h := NewHeap(HeapConfig{CollectThreshold: 3})
	track(h, &node{}, &node{})
	if stats := h.MaybeCollect(); stats != nil {
		t.Fatalf("MaybeCollect below threshold collected: %+v", stats)
	}

	track(h, &node{})
	if h.CollectCount() != 0 {
		t.Fatalf("CollectCount = %d after Track, want 0", h.CollectCount())
	}
	if h.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", h.Pending())
	}

	stats := h.MaybeCollect()
	if stats == nil || stats.Finalized != 3 {
		t.Fatalf("MaybeCollect = %+v, want 3 finalized", stats)
	}
	if h.Len() != 0 || h.Pending() != 0 {
		t.Errorf("Len, Pending = %d, %d, want 0, 0", h.Len(), h.Pending())
	}
	if h.LastStats() != stats {
		t.Error("LastStats should return the latest collection")
	}
}

func TestHeapTrackNeverFinalizes(t *testing.T) {
	h := NewHeap(HeapConfig{CollectThreshold: 1})
	nodes := []*node{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, n := range nodes {
		h.Track(n)
		if n.finalized != 0 {
			t.Fatalf("%s finalized inside Track", n.name)
		}
	}
	if h.CollectCount() != 0 {
		t.Errorf("CollectCount = %d, want 0", h.CollectCount())
	}

	h.AddRoot(nodes[0])
	h.MaybeCollect()
	if nodes[0].finalized != 0 {
		t.Error("rooted node finalized at safepoint")
	}
	if nodes[1].finalized != 1 || nodes[2].finalized != 1 {
		t.Error("unrooted nodes should be finalized at safepoint")
	}
}

func TestHeapThresholdDisabled(t *testing.T) {
	h := NewHeap(HeapConfig{})
	track(h, &node{}, &node{})
	if h.MaybeCollect() != nil {
		t.Error("MaybeCollect with zero threshold should never collect")
	}
}

func TestHeapLastStatsBeforeCollect(t *testing.T) {
	h := NewHeap(HeapConfig{})
	if h.LastStats() != nil {
		t.Error("LastStats should be nil before any collection")
	}
}

func TestSetDefault(t *testing.T) {
	h := NewHeap(HeapConfig{})
	old := SetDefault(h)
	defer SetDefault(old)

	if Default() != Collector(h) {
		t.Error("Default should return the installed heap")
	}
	if Or(nil) != Collector(h) {
		t.Error("Or(nil) should fall back to Default")
	}

	SetDefault(nil)
	if _, ok := Default().(Nop); !ok {
		t.Errorf("SetDefault(nil) installed %T, want Nop", Default())
	}
}
