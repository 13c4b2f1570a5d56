package state

import "sync"

// Locker serializes dispatches per user: two updates from the same user are
// processed in arrival order and never overlap, while different users proceed
// independently. Lock entries are reference counted and removed when idle so
// the map does not grow with the user population.
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker constructs an empty per-user locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*userLock)}
}

// Lock acquires the lock for the given user, blocking while another dispatch
// for the same user is in flight.
func (l *Locker) Lock(userID int64) {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the lock for the given user.
func (l *Locker) Unlock(userID int64) {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if ok {
		entry.refs--
		if entry.refs <= 0 {
			delete(l.locks, userID)
		}
	}
	l.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
