package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/sporttich/sportbot/core/config"
	"github.com/sporttich/sportbot/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &coreconfig.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.TimeoutSeconds = 2
	cfg.API.ReadRetries = 2
	cfg.API.RetryBackoffMS = 1
	return New(cfg), srv
}

func TestGetUserByTelegramIDDecodesRecord(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/telegram/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"telegram_id":42,"first_name":"Аня","age":25,"city":"Москва"}`))
	}))

	u, err := c.GetUserByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Аня", u.FirstName)
	assert.True(t, u.ProfileComplete())
}

func TestReadRetriedOnServerError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	events, err := c.GetEvents(context.Background(), 0, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchRetriedLikeARead(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"title":"Вечерняя пробежка","creator_id":2,"date":"2026-09-01T19:00:00Z","created_at":"2026-08-01T10:00:00Z"}]`))
	}))

	events, err := c.SearchEvents(context.Background(), model.EventSearch{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Вечерняя пробежка", events[0].Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMutationNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.CreateEvent(context.Background(), model.EventCreate{Title: "x", CreatorID: 1})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestJoinRejectionMapping(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Пользователь уже участвует в мероприятии"}`))
	}))

	err := c.JoinEvent(context.Background(), 1, 2)
	require.Error(t, err)
	assert.False(t, IsUnavailable(err))
	assert.True(t, IsRejected(err, ReasonAlreadyJoined))
	assert.Equal(t, "Пользователь уже участвует в мероприятии", RejectionDetail(err))
}

func TestNotFoundMapping(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Мероприятие не найдено"}`))
	}))

	_, err := c.GetEvent(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnavailable(err))
}

func TestRejectionNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetUserByTelegramID(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnreachableBackendIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cfg := &coreconfig.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.TimeoutSeconds = 1
	cfg.API.RetryBackoffMS = 1
	c := New(cfg)

	err := c.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestTimeoutIsUnavailable(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)

	cfg := &coreconfig.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.TimeoutSeconds = 1
	cfg.API.RetryBackoffMS = 1
	c := New(cfg)
	c.timeout = 50 * time.Millisecond
	c.http.Timeout = 50 * time.Millisecond

	_, err := c.GetEvent(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}
