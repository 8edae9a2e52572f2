package infrastructure

import (
	"sync"
	"time"
)

type keyedMutex struct {
	mu   sync.Mutex
	refs int
}

// KeyedLocker hands out one mutex per key. Entries are dropped as soon as
// nobody holds or waits for them.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyedMutex)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (l *KeyedLocker) Lock(key string) func() {
	l.mu.Lock()
	km, ok := l.locks[key]
	if !ok {
		km = &keyedMutex{}
		l.locks[key] = km
	}
	km.refs++
	l.mu.Unlock()

	km.mu.Lock()
	return func() {
		km.mu.Unlock()
		l.mu.Lock()
		km.refs--
		if km.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of keys currently held or waited on.
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// ClickDebouncer drops repeated button taps from the same chat that arrive
// within the window, as chat clients tend to double-send callbacks.
type ClickDebouncer struct {
	window time.Duration
	mu     sync.Mutex
	last   map[string]time.Time
}

func NewClickDebouncer(window time.Duration) *ClickDebouncer {
	return &ClickDebouncer{window: window, last: make(map[string]time.Time)}
}

// Allow reports whether a tap of payload by chat should be processed.
func (d *ClickDebouncer) Allow(chat, payload string) bool {
	key := chat + "|" + payload
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.last[key]; ok && now.Sub(t) < d.window {
		return false
	}
	d.last[key] = now
	if len(d.last) > 10000 {
		for k, t := range d.last {
			if now.Sub(t) >= d.window {
				delete(d.last, k)
			}
		}
	}
	return true
}
