package conversation

import (
	"strconv"
	"time"
)

// allocator issues wall-clock-derived message IDs that are strictly
// increasing in allocation order. When the clock repeats a millisecond (two
// sends in the same tick) or steps backwards, the allocation is bumped past
// the previous one instead of reusing it.
//
// The allocator is not safe for concurrent use on its own; the store calls
// it under its lock.
type allocator struct {
	last int64
	now  func() time.Time
}

func newAllocator(now func() time.Time) *allocator {
	if now == nil {
		now = time.Now
	}
	return &allocator{now: now}
}

// next returns a fresh ID and the timestamp it was derived from, in unix
// milliseconds. The timestamp is non-decreasing across allocations, so log
// order and timestamp order agree.
func (a *allocator) next() (id string, ts int64) {
	t := a.now().UnixMilli()
	if t <= a.last {
		t = a.last + 1
	}
	a.last = t
	return strconv.FormatInt(t, 10), t
}

// reserve raises the floor so future allocations strictly exceed the given
// ID. Non-numeric IDs are ignored. Used when loading a persisted log.
func (a *allocator) reserve(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	if n > a.last {
		a.last = n
	}
}
