package messaging

import (
	"fmt"
	"sync"
	"time"
)

// RequestDeduplicator drops replays of preview requests. A request is a
// duplicate when its id was already seen inside the window. Requests
// without an id are never dropped: two identical commands are two commands.
type RequestDeduplicator struct {
	mu          sync.Mutex
	requestIDs  map[string]time.Time
	window      time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

// NewRequestDeduplicator creates a deduplicator remembering request ids for
// window. A zero window disables it.
func NewRequestDeduplicator(window time.Duration) *RequestDeduplicator {
	return newRequestDeduplicator(window, time.Now)
}

func newRequestDeduplicator(window time.Duration, now func() time.Time) *RequestDeduplicator {
	return &RequestDeduplicator{
		requestIDs:  make(map[string]time.Time),
		window:      window,
		lastCleanup: now(),
		now:         now,
	}
}

// IsDuplicate records requestID and reports whether it was seen before,
// with a reason for logging.
func (d *RequestDeduplicator) IsDuplicate(requestID string) (bool, string) {
	if requestID == "" || d.window <= 0 {
		return false, ""
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.Sub(d.lastCleanup) > d.window {
		d.cleanup(now)
	}

	if at, seen := d.requestIDs[requestID]; seen && now.Sub(at) < d.window {
		return true, fmt.Sprintf("duplicate request ID: %s (within %v)", requestID, now.Sub(at))
	}
	d.requestIDs[requestID] = now
	return false, ""
}

func (d *RequestDeduplicator) cleanup(now time.Time) {
	for id, at := range d.requestIDs {
		if now.Sub(at) >= d.window {
			delete(d.requestIDs, id)
		}
	}
	d.lastCleanup = now
}
