package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	keyMessages = "messages"
	keyKeyboard = "kb"
)

// countingContext wraps tele.Context so every outbound message bumps the
// per-update counters that the handler summary log reports.
type countingContext struct{ tele.Context }

func (m countingContext) bump(opts []interface{}) {
	n, _ := m.Get(keyMessages).(int)
	m.Set(keyMessages, n+1)
	if anyKeyboard(opts) {
		m.Set(keyKeyboard, true)
	}
}

func anyKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	if err := m.Context.Send(what, opts...); err != nil {
		return err
	}
	m.bump(opts)
	return nil
}

func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	if err := m.Context.Reply(what, opts...); err != nil {
		return err
	}
	m.bump(opts)
	return nil
}

func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	if err := m.Context.Edit(what, opts...); err != nil {
		return err
	}
	m.bump(opts)
	return nil
}

func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	if err := m.Context.EditOrSend(what, opts...); err != nil {
		return err
	}
	m.bump(opts)
	return nil
}

func (m countingContext) EditOrReply(what interface{}, opts ...interface{}) error {
	if err := m.Context.EditOrReply(what, opts...); err != nil {
		return err
	}
	m.bump(opts)
	return nil
}

// MessageMetricsMiddleware swaps in the counting context for downstream
// handlers.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(keyMessages, 0)
		c.Set(keyKeyboard, false)
		return next(countingContext{Context: c})
	}
}

// GetCounters reads the message count and keyboard flag back out.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(keyMessages).(int)
	kb, _ := c.Get(keyKeyboard).(bool)
	return msgs, kb
}
