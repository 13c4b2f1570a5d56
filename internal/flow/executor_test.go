package flow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/sporttich/sportbot/core/config"
	"github.com/sporttich/sportbot/core/telegram/state"
	"github.com/sporttich/sportbot/internal/backend"
	"github.com/sporttich/sportbot/internal/model"

	tele "gopkg.in/telebot.v4"
)

// testContext stubs the handful of tele.Context methods the executor touches.
type testContext struct {
	tele.Context
	sender *tele.User
	text   string
	store  map[string]any
	sent   []string
}

func newTestContext(userID int64) *testContext {
	return &testContext{
		sender: &tele.User{ID: userID},
		store:  map[string]any{},
	}
}

func (c *testContext) Sender() *tele.User  { return c.sender }
func (c *testContext) Chat() *tele.Chat    { return &tele.Chat{ID: c.sender.ID} }
func (c *testContext) Update() tele.Update { return tele.Update{ID: 1} }
func (c *testContext) Text() string        { return c.text }
func (c *testContext) Get(k string) any    { return c.store[k] }
func (c *testContext) Set(k string, v any) { c.store[k] = v }

func (c *testContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *testContext) lastSent() string {
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1]
}

func newBackend(t *testing.T, handler http.Handler) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &coreconfig.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.TimeoutSeconds = 2
	cfg.API.RetryBackoffMS = 1
	return backend.New(cfg)
}

func feed(t *testing.T, e *Executor, c *testContext, input string) Outcome {
	t.Helper()
	c.text = input
	out, err := e.handle(c)
	require.NoError(t, err)
	return out
}

func TestCreateEventScenario(t *testing.T) {
	var created model.EventCreate
	api := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":10,"title":"Вечерняя пробежка","creator_id":7,"date":"2026-12-25T18:00:00Z","created_at":"2026-08-31T10:00:00Z"}`))
	}))

	states := state.NewMemoryManager(10 * time.Minute)
	fixed := func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	}
	e := NewExecutor(states, NewCreateEventFlow(api, fixed))

	c := newTestContext(100)
	require.NoError(t, e.Start(c, CreateEvent, map[string]any{FieldCreatorID: int64(7)}))
	assert.True(t, e.InProgress(100))
	assert.Contains(t, c.lastSent(), "название")

	// Too-short title keeps the step.
	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "аб"))
	assert.Equal(t, 0, states.Get(100).Step)

	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Вечерняя пробежка"))

	// Past date is rejected, step unchanged.
	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "01.01.2020 10:00"))
	assert.Equal(t, 1, states.Get(100).Step)

	assert.Equal(t, OutcomePrompt, feed(t, e, c, "25.12.2026 18:00"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Парк Горького"))

	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "Шахматы в темноте"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Бег"))

	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "много"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "10"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "0"))

	assert.Equal(t, OutcomeCompleted, feed(t, e, c, "пропустить"))

	assert.False(t, e.InProgress(100))
	assert.Nil(t, states.Get(100))

	assert.Equal(t, "Вечерняя пробежка", created.Title)
	assert.Equal(t, int64(7), created.CreatorID)
	require.NotNil(t, created.Location)
	assert.Equal(t, "Парк Горького", *created.Location)
	require.NotNil(t, created.SportType)
	assert.Equal(t, "Бег", *created.SportType)
	require.NotNil(t, created.MaxParticipants)
	assert.Equal(t, 10, *created.MaxParticipants)
	assert.Nil(t, created.Fee)
	assert.Nil(t, created.Note)
	assert.Contains(t, c.lastSent(), "Тренировка создана")
}

func TestCompletionClearsStateOnBackendFailure(t *testing.T) {
	api := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	states := state.NewMemoryManager(10 * time.Minute)
	e := NewExecutor(states, NewRegisterFlow(api))

	c := newTestContext(200)
	require.NoError(t, e.Start(c, Register, map[string]any{FieldUserID: int64(2)}))

	assert.Equal(t, OutcomePrompt, feed(t, e, c, "25"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Мужской"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Москва"))
	assert.Equal(t, OutcomeCompleted, feed(t, e, c, "Бег, Йога"))

	// Unavailable backend still terminates the dialog.
	assert.False(t, e.InProgress(200))
	assert.Contains(t, c.lastSent(), "временно недоступен")
}

func TestRegisterValidation(t *testing.T) {
	api := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":2,"telegram_id":200,"first_name":"x"}`))
	}))

	states := state.NewMemoryManager(10 * time.Minute)
	e := NewExecutor(states, NewRegisterFlow(api))

	c := newTestContext(201)
	require.NoError(t, e.Start(c, Register, map[string]any{FieldUserID: int64(2)}))

	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "двадцать"))
	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "12"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "30"))
	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "другое"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Женский"))
	assert.Equal(t, OutcomePrompt, feed(t, e, c, "Казань"))
	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "Квиддич"))
	assert.Equal(t, OutcomeCompleted, feed(t, e, c, "Теннис"))
	assert.False(t, e.InProgress(201))
}

func TestAbortClearsActiveFlow(t *testing.T) {
	api := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	states := state.NewMemoryManager(10 * time.Minute)
	e := NewExecutor(states, NewRegisterFlow(api))

	c := newTestContext(300)
	require.NoError(t, e.Start(c, Register, nil))
	require.True(t, e.InProgress(300))

	assert.True(t, e.Abort(c))
	assert.False(t, e.InProgress(300))
	assert.False(t, e.Abort(c))
}

func TestHandleWithoutSessionIsNoop(t *testing.T) {
	states := state.NewMemoryManager(10 * time.Minute)
	e := NewExecutor(states)

	c := newTestContext(400)
	c.text = "привет"
	out, err := e.handle(c)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, out)
}
