package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type recoverContext struct {
	tele.Context
	sender *tele.User
	sent   []any
}

func (c *recoverContext) Sender() *tele.User { return c.sender }

func (c *recoverContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func TestRecoverSendsApologyAndClearsSession(t *testing.T) {
	prevHook, prevReply := OnPanic, OnPanicReply
	defer func() { OnPanic, OnPanicReply = prevHook, prevReply }()

	var cleared int64
	OnPanic = func(userID int64) { cleared = userID }
	OnPanicReply = nil

	c := &recoverContext{sender: &tele.User{ID: 42}}
	h := RecoverMiddleware(func(tele.Context) error {
		panic("boom")
	})

	require.NoError(t, h(c))
	assert.Equal(t, int64(42), cleared)
	require.Len(t, c.sent, 1, "user must get a notice after a recovered panic")
	assert.Equal(t, panicNotice, c.sent[0])
}

func TestRecoverPrefersConfiguredReply(t *testing.T) {
	prevHook, prevReply := OnPanic, OnPanicReply
	defer func() { OnPanic, OnPanicReply = prevHook, prevReply }()

	OnPanic = nil
	replies := 0
	OnPanicReply = func(tele.Context) error {
		replies++
		return nil
	}

	c := &recoverContext{sender: &tele.User{ID: 7}}
	require.NoError(t, RecoverMiddleware(func(tele.Context) error {
		panic(errors.New("handler blew up"))
	})(c))

	assert.Equal(t, 1, replies)
	assert.Empty(t, c.sent, "configured reply replaces the plain apology")
}

func TestRecoverPassesThroughWithoutPanic(t *testing.T) {
	c := &recoverContext{sender: &tele.User{ID: 7}}
	err := RecoverMiddleware(func(tele.Context) error { return nil })(c)

	require.NoError(t, err)
	assert.Empty(t, c.sent)
}
