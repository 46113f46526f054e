package cache

import "sync/atomic"

// Capacity tracks how many bytes of resolved frames are currently cached
// against a configurable budget. The original implementation used two
// package-level statics (ENTIRE_CACHE_SIZE, MAX_CACHE_SIZE); per the
// spec's own design note this is instead an injectable struct, shared by
// pointer between a Registry and every CachedDecoder it creates, so a
// process can run more than one independent cache (as the test suite
// does) without global state collisions.
type Capacity struct {
	current atomic.Uint64
	max     atomic.Uint64
}

// NewCapacity returns a Capacity budgeted at maxBytes.
func NewCapacity(maxBytes uint64) *Capacity {
	c := &Capacity{}
	c.max.Store(maxBytes)
	return c
}

// Add accounts for n newly cached bytes.
func (c *Capacity) Add(n uint64) {
	c.current.Add(n)
}

// Sub releases n previously accounted bytes, floored at zero.
func (c *Capacity) Sub(n uint64) {
	for {
		cur := c.current.Load()
		next := uint64(0)
		if cur > n {
			next = cur - n
		}
		if c.current.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Usage returns the current and maximum byte budgets.
func (c *Capacity) Usage() (current, max uint64) {
	return c.current.Load(), c.max.Load()
}

// SetMax updates the budget, clamping to MinBudgetBytes.
func (c *Capacity) SetMax(maxBytes uint64) {
	if maxBytes < MinBudgetBytes {
		maxBytes = MinBudgetBytes
	}
	c.max.Store(maxBytes)
}

// OverBudget reports whether current usage has reached or exceeded max.
func (c *Capacity) OverBudget() bool {
	return c.current.Load() >= c.max.Load()
}

// Reset zeroes current usage, used after Clear drains every decoder.
func (c *Capacity) Reset() {
	c.current.Store(0)
}

// MinBudgetBytes is the floor SetMax clamps to, matching the original's
// set_max_cache_size(bytes.max(1MiB)).
const MinBudgetBytes = 1 << 20
