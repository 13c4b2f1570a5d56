package flow

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sporttich/sportbot/core/telegram/state"
)

// The date step takes the dotted layout first and falls back to the lenient
// parser, so ISO-style input from habituated users still goes through.
func TestCreateEventAcceptsISODate(t *testing.T) {
	api := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unexpected call", http.StatusTeapot)
	}))

	states := state.NewMemoryManager(10 * time.Minute)
	fixed := func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	}
	e := NewExecutor(states, NewCreateEventFlow(api, fixed))

	c := newTestContext(200)
	require.NoError(t, e.Start(c, CreateEvent, map[string]any{FieldCreatorID: int64(7)}))
	require.Equal(t, OutcomePrompt, feed(t, e, c, "Утренняя йога"))

	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "послезавтра"))
	assert.Equal(t, 1, states.Get(200).Step)

	// Date-only dotted input lands on midnight in the past and is rejected.
	assert.Equal(t, OutcomeValidationFailed, feed(t, e, c, "31.08.2026"))

	assert.Equal(t, OutcomePrompt, feed(t, e, c, "2026-12-25 18:00"))
	sess := states.Get(200)
	require.NotNil(t, sess)
	got, ok := sess.Fields["date"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 12, 25, 18, 0, 0, 0, time.Local), got)
}
