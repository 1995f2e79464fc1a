package usecase

import "sync"

// keyMutex serializes work per string key. Used to close the race between
// recording a payment and flipping the redemption status of the same asset.
// An entry is dropped as soon as no goroutine holds or waits on its key, so
// the map stays bounded by concurrent keys rather than distinct ones.
type keyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (m *keyMutex) Lock(key string) {
	m.mu.Lock()
	if m.locks == nil {
		m.locks = make(map[string]*keyLock)
	}
	l := m.locks[key]
	if l == nil {
		l = &keyLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
}

func (m *keyMutex) Unlock(key string) {
	m.mu.Lock()
	l := m.locks[key]
	if l != nil {
		l.refs--
		if l.refs == 0 {
			delete(m.locks, key)
		}
	}
	m.mu.Unlock()

	if l != nil {
		l.mu.Unlock()
	}
}
