package gc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lumen.gc")

// ---------------------------------------------------------------------------
// Heap: reference mark-and-sweep collector
// ---------------------------------------------------------------------------

// Stats holds statistics from a single collection.
type Stats struct {
	Tracked   int
	Marked    int
	Finalized int
	Duration  time.Duration
	Timestamp time.Time
}

// HeapConfig configures a Heap.
type HeapConfig struct {
	// CollectThreshold makes MaybeCollect collect once this many objects
	// have been tracked since the previous collection. Zero disables it.
	CollectThreshold int
}

// Heap tracks shared allocations and reclaims the ones that are no longer
// reachable from its roots. Collection only happens at a safepoint: an
// explicit Collect, or MaybeCollect once the threshold is reached. Track
// never collects, so an object is safe until its owner has had the chance
// to root it.
type Heap struct {
	mu        sync.Mutex
	objects   map[Traceable]struct{}
	roots     map[Traceable]int // root -> pin count
	threshold int
	pending   int // tracked since last collection

	collectCount atomic.Uint64
	lastStats    atomic.Value // *Stats
}

// NewHeap creates an empty Heap.
func NewHeap(cfg HeapConfig) *Heap {
	return &Heap{
		objects:   make(map[Traceable]struct{}),
		roots:     make(map[Traceable]int),
		threshold: cfg.CollectThreshold,
	}
}

// Track implements Collector.
func (h *Heap) Track(obj Traceable) {
	if obj == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects[obj] = struct{}{}
	h.pending++
}

// Pending returns the number of objects tracked since the last collection.
func (h *Heap) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending
}

// MaybeCollect collects if the threshold has been reached and returns the
// statistics, or nil if no collection ran. Callers must have rooted every
// object they still use.
func (h *Heap) MaybeCollect() *Stats {
	h.mu.Lock()
	due := h.threshold > 0 && h.pending >= h.threshold
	h.mu.Unlock()

	if !due {
		return nil
	}
	log.Debugf("collect threshold %d reached", h.threshold)
	return h.Collect()
}

// AddRoot pins obj so that it, and everything it traces to, survives
// collection. Roots nest: each AddRoot needs a matching RemoveRoot.
func (h *Heap) AddRoot(obj Traceable) {
	if obj == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roots[obj]++
}

// RemoveRoot undoes one AddRoot.
func (h *Heap) RemoveRoot(obj Traceable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := h.roots[obj]; n > 1 {
		h.roots[obj] = n - 1
	} else {
		delete(h.roots, obj)
	}
}

// Contains reports whether obj is tracked and not yet reclaimed.
func (h *Heap) Contains(obj Traceable) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.objects[obj]
	return ok
}

// Len returns the number of live tracked objects.
func (h *Heap) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}

// CollectCount returns the number of collections performed.
func (h *Heap) CollectCount() uint64 {
	return h.collectCount.Load()
}

// LastStats returns statistics from the most recent collection, or nil if
// none has run yet.
func (h *Heap) LastStats() *Stats {
	v := h.lastStats.Load()
	if v == nil {
		return nil
	}
	return v.(*Stats)
}

// Collect marks everything reachable from the roots and finalizes the rest.
// Each unreachable object is finalized exactly once and forgotten.
func (h *Heap) Collect() *Stats {
	start := time.Now()

	h.mu.Lock()
	marked := make(map[Traceable]struct{}, len(h.objects))
	var stack []Traceable
	for root := range h.roots {
		stack = append(stack, root)
	}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := marked[obj]; seen {
			continue
		}
		marked[obj] = struct{}{}
		obj.Trace(func(child Traceable) {
			if child == nil {
				return
			}
			if _, seen := marked[child]; !seen {
				stack = append(stack, child)
			}
		})
	}

	var dead []Traceable
	for obj := range h.objects {
		if _, ok := marked[obj]; !ok {
			dead = append(dead, obj)
			delete(h.objects, obj)
		}
	}
	stats := &Stats{
		Tracked:   len(h.objects) + len(dead),
		Marked:    len(marked),
		Finalized: len(dead),
		Timestamp: start,
	}
	h.pending = 0
	h.mu.Unlock()

	// Finalizers run unlocked so they may track new objects.
	for _, obj := range dead {
		log.Debugf("finalizing %T", obj)
		obj.Finalize()
	}

	stats.Duration = time.Since(start)
	h.collectCount.Add(1)
	h.lastStats.Store(stats)
	log.Infof("collection %d: %d tracked, %d marked, %d finalized in %s",
		h.collectCount.Load(), stats.Tracked, stats.Marked, stats.Finalized, stats.Duration)

	return stats
}
