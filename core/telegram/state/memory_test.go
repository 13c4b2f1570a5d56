package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetReturnsNilWithoutSession(t *testing.T) {
	m := NewMemoryManager(time.Minute)
	require.Nil(t, m.Get(1))
	require.False(t, m.InProgress(1))
}

func TestSetGetClear(t *testing.T) {
	m := NewMemoryManager(time.Minute)
	m.Set(1, &Session{Flow: "create_event", Step: 2, Fields: map[string]any{"title": "run"}})

	got := m.Get(1)
	require.NotNil(t, got)
	require.Equal(t, Flow("create_event"), got.Flow)
	require.Equal(t, 2, got.Step)
	require.Equal(t, "run", got.Fields["title"])
	require.True(t, m.InProgress(1))

	m.Clear(1)
	require.Nil(t, m.Get(1))
}

func TestGetIsIdempotent(t *testing.T) {
	m := NewMemoryManager(time.Minute)
	m.Set(7, &Session{Flow: "register", Step: 1, Fields: map[string]any{"age": 30}})

	first := m.Get(7)
	second := m.Get(7)
	require.Equal(t, first.Flow, second.Flow)
	require.Equal(t, first.Step, second.Step)
	require.Equal(t, first.Fields, second.Fields)
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewMemoryManager(time.Minute)
	m.Set(1, &Session{Flow: "create_event", Fields: map[string]any{}})

	got := m.Get(1)
	got.Step = 99
	got.Fields["rogue"] = true

	again := m.Get(1)
	require.Equal(t, 0, again.Step)
	require.NotContains(t, again.Fields, "rogue")
}

func TestLazyExpiry(t *testing.T) {
	m := NewMemoryManager(time.Minute).(*memoryManager)
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(1, &Session{Flow: "create_event"})
	require.True(t, m.InProgress(1))

	now = now.Add(61 * time.Second)
	require.Nil(t, m.Get(1))
	require.False(t, m.InProgress(1))

	// Expired entry must be evicted, not resurrected by a later clock change.
	now = now.Add(-61 * time.Second)
	require.Nil(t, m.Get(1))
}

func TestTouchOnSetExtendsLifetime(t *testing.T) {
	m := NewMemoryManager(time.Minute).(*memoryManager)
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(1, &Session{Flow: "create_event", Step: 0})
	now = now.Add(40 * time.Second)
	s := m.Get(1)
	require.NotNil(t, s)

	s.Step++
	m.Set(1, s)
	now = now.Add(40 * time.Second)
	// 80s since creation but only 40s since last write.
	got := m.Get(1)
	require.NotNil(t, got)
	require.Equal(t, 1, got.Step)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	m := NewMemoryManager(0).(*memoryManager)
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(1, &Session{Flow: "register"})
	now = now.Add(24 * time.Hour)
	require.NotNil(t, m.Get(1))
}
