// Package store holds the durable player-record backends. Both backends
// serialize writes per player: Update holds that player's lock across the
// whole read-modify-write, so two operations on the same player never
// interleave, while different players proceed in parallel.
package store

import "sync"

// keyedLocks is a grow-only table of per-player mutexes. Entries are never
// removed; the set of players a process touches is small and bounded.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{m: make(map[string]*sync.Mutex)}
}

// acquire locks the key's mutex and returns its unlock func.
func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
