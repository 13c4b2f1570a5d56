package router

import (
	"time"

	tg "github.com/sporttich/sportbot/core/telegram"
	"github.com/sporttich/sportbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM is the minimal surface the router needs from the flow engine.
type FSM interface {
	InProgress(userID int64) bool
	HandleActive(c tele.Context) error
}

// TextOptions controls cancellation and fallback behaviour for text/document updates.
type TextOptions struct {
	// CancelLabels are keyboard labels that abort an active flow. They are
	// checked before the flow itself so a user is never trapped mid-dialog.
	CancelLabels    []string
	OnCancel        tele.HandlerFunc
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds handlers for text and document routing.
// Dispatch order: cancel label, active flow, command or button label, fallback.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	cancelSet := make(map[string]struct{}, len(opts.CancelLabels))
	for _, l := range opts.CancelLabels {
		cancelSet[l] = struct{}{}
	}

	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if opts.OnCancel != nil {
			if _, ok := cancelSet[text]; ok {
				return handleWithSummary(c, "cancel", start, "", "", func() error {
					return opts.OnCancel(c)
				})
			}
		}

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.HandleActive(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	docHandler := func(c tele.Context) error {
		start := time.Now()
		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm_document", start, "", "", func() error {
				return fsmMgr.HandleActive(c)
			})
		}
		if opts.UnknownDocument != nil {
			return handleWithSummary(c, "unexpected_document", start, "", "", func() error {
				return opts.UnknownDocument(c)
			})
		}
		logHandlerSummary(c, "unexpected_document", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnDocument,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(docHandler)),
		},
	}
}
