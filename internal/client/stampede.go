package client

import "sync"

// missTracker counts in-progress cache misses per key. There is no
// single-flight: concurrent misses each fetch upstream, and the tracker only
// makes that overlap observable through metrics.
type missTracker struct {
	mu     sync.Mutex
	active map[string]int
}

func newMissTracker() *missTracker {
	return &missTracker{active: make(map[string]int)}
}

// Begin records an in-progress miss for key and returns the concurrent count
// after incrementing. Callers defer End(key) once the fetch completes.
func (t *missTracker) Begin(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active[key]++
	return t.active[key]
}

// End marks one in-progress miss for key as finished.
func (t *missTracker) End(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.active[key]; ok && n > 0 {
		t.active[key]--
		if t.active[key] == 0 {
			delete(t.active, key)
		}
	}
}
