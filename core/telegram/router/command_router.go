package router

import (
	"github.com/sporttich/sportbot/core/logger"
	tg "github.com/sporttich/sportbot/core/telegram"
	"github.com/sporttich/sportbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc

	// FSM, when set, diverts commands from users with an active flow into the
	// flow itself. Commands listed in FlowExempt keep their own handler so
	// cancellation stays reachable mid-flow.
	FSM        FSM
	FlowExempt []string
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	exempt := make(map[string]struct{}, len(opts.FlowExempt))
	for _, name := range opts.FlowExempt {
		exempt[name] = struct{}{}
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		h := def.Handler
		if opts.FSM != nil {
			if _, ok := exempt[cmd]; !ok {
				h = flowGate(opts.FSM, h)
			}
		}
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	if logger.TWire != nil {
		logger.TWire.Info("tg.wire",
			slog.String("event", "complete"),
			slog.Int("commands", len(reg.Commands())),
			slog.Int("callbacks", len(reg.ListCallbacks())),
		)
	}

	return routes
}

func flowGate(fsmMgr FSM, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sender := c.Sender(); sender != nil && fsmMgr.InProgress(sender.ID) {
			return fsmMgr.HandleActive(c)
		}
		return next(c)
	}
}
