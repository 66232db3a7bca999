// Package gc defines the capability shared heap objects expose to a tracing
// collector, and ships a reference mark-and-sweep Heap.
//
// The runtime core never implements collection itself. Shared allocations
// (medium and long text blocks, classes) implement Traceable and register
// with whatever Collector is installed.
package gc

import "sync"

// Traceable is implemented by every shared heap allocation.
type Traceable interface {
	// Trace calls visit once for each shared allocation this object owns.
	Trace(visit func(Traceable))

	// Finalize runs when the collector reclaims the object.
	Finalize()
}

// Collector accepts newly allocated shared objects.
type Collector interface {
	Track(obj Traceable)
}

// Nop leaves reclamation to the Go runtime. Track does nothing.
type Nop struct{}

// Track implements Collector.
func (Nop) Track(Traceable) {}

var (
	defaultMu        sync.RWMutex
	defaultCollector Collector = Nop{}
)

// Default returns the process-wide collector used by constructors that do
// not take an explicit one.
func Default() Collector {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultCollector
}

// SetDefault installs c as the process-wide collector and returns the
// previous one. A nil c restores Nop.
func SetDefault(c Collector) Collector {
	if c == nil {
		c = Nop{}
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	old := defaultCollector
	defaultCollector = c
	return old
}

// Or returns c, or Default() if c is nil.
func Or(c Collector) Collector {
	if c == nil {
		return Default()
	}
	return c
}
