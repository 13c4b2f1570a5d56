package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockerSerializesSameUser(t *testing.T) {
	l := NewLocker()
	m := NewMemoryManager(time.Minute)
	m.Set(1, &Session{Flow: "create_event", Step: 0, Fields: map[string]any{}})

	// Two step-advancing dispatches for the same user, each with a delay
	// between read and write. Without serialization one increment is lost.
	advance := func() {
		l.Lock(1)
		defer l.Unlock(1)
		s := m.Get(1)
		time.Sleep(10 * time.Millisecond)
		s.Step++
		m.Set(1, s)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			advance()
		}()
	}
	wg.Wait()

	require.Equal(t, 2, m.Get(1).Step)
}

func TestLockerIndependentUsersDoNotBlock(t *testing.T) {
	l := NewLocker()

	l.Lock(1)
	done := make(chan struct{})
	go func() {
		l.Lock(2)
		l.Unlock(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch for user 2 blocked behind user 1")
	}
	l.Unlock(1)
}

func TestLockerReleasesEntries(t *testing.T) {
	l := NewLocker()
	for i := 0; i < 100; i++ {
		l.Lock(int64(i))
		l.Unlock(int64(i))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	require.Empty(t, l.locks)
}
