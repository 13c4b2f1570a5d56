package flow

import (
	"strings"

	"github.com/sporttich/sportbot/core/logger"
	tghelpers "github.com/sporttich/sportbot/core/telegram/helpers"
	"github.com/sporttich/sportbot/core/telegram/state"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Executor runs flows against the conversation state store. It satisfies the
// router's FSM interface.
type Executor struct {
	states state.Manager
	flows  map[state.Flow]*Descriptor
}

// NewExecutor builds an executor over the given store and flow descriptors.
func NewExecutor(states state.Manager, descriptors ...*Descriptor) *Executor {
	flows := make(map[state.Flow]*Descriptor, len(descriptors))
	for _, d := range descriptors {
		flows[d.Name] = d
	}
	return &Executor{states: states, flows: flows}
}

// InProgress reports whether the user has an active flow.
func (e *Executor) InProgress(userID int64) bool {
	return e.states.InProgress(userID)
}

// States exposes the underlying store for wiring (panic cleanup hook).
func (e *Executor) States() state.Manager {
	return e.states
}

// Start begins a flow for the sender, seeding initial fields, and sends the
// first prompt.
func (e *Executor) Start(c tele.Context, name state.Flow, seed map[string]any) error {
	desc, ok := e.flows[name]
	if !ok || len(desc.Steps) == 0 {
		return nil
	}
	fields := make(map[string]any, len(seed)+len(desc.Steps))
	for k, v := range seed {
		fields[k] = v
	}
	e.states.Set(c.Sender().ID, &state.Session{Flow: name, Step: 0, Fields: fields})

	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.Flow, slog.LevelInfo, "flow.start",
		slog.String("status", "ok"),
		slog.String("flow", string(name)),
	)

	first := desc.Steps[0]
	return tghelpers.SendHTML(c, first.Prompt, first.Markup)
}

// HandleActive feeds the current message into the sender's active flow.
func (e *Executor) HandleActive(c tele.Context) error {
	_, err := e.handle(c)
	return err
}

// Abort clears the sender's active flow. Returns false when nothing was
// active.
func (e *Executor) Abort(c tele.Context) bool {
	userID := c.Sender().ID
	sess := e.states.Get(userID)
	if sess == nil {
		return false
	}
	e.states.Clear(userID)
	logFlowEvent(c, sess, "", OutcomeAborted, slog.LevelInfo)
	return true
}

func (e *Executor) handle(c tele.Context) (Outcome, error) {
	userID := c.Sender().ID
	sess := e.states.Get(userID)
	if sess == nil {
		return OutcomeAborted, nil
	}
	desc, ok := e.flows[sess.Flow]
	if !ok || sess.Step >= len(desc.Steps) {
		// Orphaned session, likely from an older build. Drop it.
		e.states.Clear(userID)
		return OutcomeAborted, nil
	}

	step := desc.Steps[sess.Step]
	input := strings.TrimSpace(c.Text())

	value, errText := step.Validate(input)
	if errText != "" {
		// The step stays put, the answer is re-requested.
		e.states.Set(userID, sess)
		logFlowEvent(c, sess, step.Field, OutcomeValidationFailed, slog.LevelInfo)
		return OutcomeValidationFailed, tghelpers.SendHTML(c, errText, step.Markup)
	}

	sess.Fields[step.Field] = value
	sess.Step++

	if sess.Step < len(desc.Steps) {
		e.states.Set(userID, sess)
		next := desc.Steps[sess.Step]
		logFlowEvent(c, sess, next.Field, OutcomePrompt, slog.LevelDebug)
		return OutcomePrompt, tghelpers.SendHTML(c, next.Prompt, next.Markup)
	}

	// Terminal step: state is cleared no matter how completion ends.
	defer e.states.Clear(userID)

	ctx := tghelpers.BuildContext(c)
	err := desc.Complete(ctx, c, sess.Fields)
	if err != nil {
		logger.LogEvent(ctx, logger.Flow, slog.LevelWarn, "flow.complete",
			slog.String("status", "fail"),
			slog.String("flow", string(sess.Flow)),
			slog.String("outcome", string(OutcomeCompleted)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		if desc.OnFailure != nil {
			return OutcomeCompleted, desc.OnFailure(c, err)
		}
		return OutcomeCompleted, err
	}

	logFlowEvent(c, sess, "", OutcomeCompleted, slog.LevelInfo)
	return OutcomeCompleted, nil
}

func logFlowEvent(c tele.Context, sess *state.Session, field string, outcome Outcome, level slog.Level) {
	ctx := tghelpers.BuildContext(c)
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("flow", string(sess.Flow)),
		slog.Int("step", sess.Step),
		slog.String("outcome", string(outcome)),
	}
	if field != "" {
		attrs = append(attrs, slog.String("field", field))
	}
	logger.LogEvent(ctx, logger.Flow, level, "flow.step", attrs...)
}
