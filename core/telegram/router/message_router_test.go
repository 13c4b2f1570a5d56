package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/sporttich/sportbot/core/telegram"
	"github.com/sporttich/sportbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

type stubContext struct {
	tele.Context
	sender *tele.User
	text   string
	store  map[string]any
}

func newStubContext(userID int64, text string) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		text:   text,
		store:  map[string]any{},
	}
}

func (c *stubContext) Sender() *tele.User  { return c.sender }
func (c *stubContext) Chat() *tele.Chat    { return &tele.Chat{ID: c.sender.ID} }
func (c *stubContext) Update() tele.Update { return tele.Update{ID: 1} }
func (c *stubContext) Text() string        { return c.text }
func (c *stubContext) Get(k string) any    { return c.store[k] }
func (c *stubContext) Set(k string, v any) { c.store[k] = v }

func (c *stubContext) Send(what interface{}, opts ...interface{}) error { return nil }

type stubFSM struct {
	active  bool
	handled int
}

func (f *stubFSM) InProgress(int64) bool { return f.active }
func (f *stubFSM) HandleActive(tele.Context) error {
	f.handled++
	return nil
}

func textHandler(routes []tg.Route) tele.HandlerFunc {
	for _, r := range routes {
		if r.Endpoint == tele.OnText {
			return r.Handler
		}
	}
	return nil
}

func TestTextDispatchPriority(t *testing.T) {
	fsm := &stubFSM{}
	reg := tg.NewRegistry()

	var profileCalls, cancelCalls, fallbackCalls int
	reg.RegisterCommand("/profile", commands.Command{
		Handler: func(c tele.Context) error { profileCalls++; return nil },
		Labels:  []string{"👤 Профиль"},
	})
	reg.SetTextFallback(func(c tele.Context) error { fallbackCalls++; return nil })

	routes := TextRoutes(fsm, reg, TextOptions{
		CancelLabels: []string{"❌ Отмена"},
		OnCancel:     func(c tele.Context) error { cancelCalls++; return nil },
	})
	handler := textHandler(routes)
	require.NotNil(t, handler)

	// No active flow: the button label resolves to its command handler.
	require.NoError(t, handler(newStubContext(1, "👤 Профиль")))
	assert.Equal(t, 1, profileCalls)
	assert.Equal(t, 0, fsm.handled)

	// Active flow swallows ordinary text, including command labels.
	fsm.active = true
	require.NoError(t, handler(newStubContext(1, "👤 Профиль")))
	assert.Equal(t, 1, profileCalls)
	assert.Equal(t, 1, fsm.handled)

	// Cancel wins over the active flow.
	require.NoError(t, handler(newStubContext(1, "❌ Отмена")))
	assert.Equal(t, 1, cancelCalls)
	assert.Equal(t, 1, fsm.handled)

	// Unknown text without a flow goes to the fallback.
	fsm.active = false
	require.NoError(t, handler(newStubContext(1, "что-то ещё")))
	assert.Equal(t, 1, fallbackCalls)
}

func TestSlashLookupThroughText(t *testing.T) {
	reg := tg.NewRegistry()
	var calls int
	reg.RegisterCommand("/profile", commands.Command{
		Handler: func(c tele.Context) error { calls++; return nil },
		Aliases: []string{"/me"},
	})

	routes := TextRoutes(&stubFSM{}, reg, TextOptions{})
	handler := textHandler(routes)
	require.NotNil(t, handler)

	require.NoError(t, handler(newStubContext(2, "/me")))
	assert.Equal(t, 1, calls)
}

func TestFlowGateDivertsActiveUsers(t *testing.T) {
	fsm := &stubFSM{active: true}
	reg := tg.NewRegistry()

	var profileCalls, cancelCalls int
	reg.RegisterCommand("/profile", commands.Command{
		Handler: func(c tele.Context) error { profileCalls++; return nil },
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler: func(c tele.Context) error { cancelCalls++; return nil },
	})

	routes := CommandRoutes(reg, CommandRouteOptions{
		FSM:        fsm,
		FlowExempt: []string{"/cancel"},
	})

	byEndpoint := map[string]tele.HandlerFunc{}
	for _, r := range routes {
		byEndpoint[r.Endpoint.(string)] = r.Handler
	}

	// Mid-flow /profile feeds the flow instead of its own handler.
	require.NoError(t, byEndpoint["/profile"](newStubContext(3, "/profile")))
	assert.Equal(t, 0, profileCalls)
	assert.Equal(t, 1, fsm.handled)

	// /cancel stays reachable.
	require.NoError(t, byEndpoint["/cancel"](newStubContext(3, "/cancel")))
	assert.Equal(t, 1, cancelCalls)
	assert.Equal(t, 1, fsm.handled)
}
