package flow

import (
	"context"

	"github.com/sporttich/sportbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Flow names.
const (
	CreateEvent state.Flow = "create_event"
	Register    state.Flow = "register"
)

// Session field keys seeded by entry handlers.
const (
	FieldCreatorID = "creator_id"
	FieldUserID    = "user_id"
)

// Outcome classifies the result of handling one flow input.
type Outcome string

const (
	OutcomePrompt           Outcome = "prompt"
	OutcomeCompleted        Outcome = "completed"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeAborted          Outcome = "aborted"
)

// Step is one question of a flow. Validate returns the value to store and an
// empty string, or a user-facing error text when the input is refused.
type Step struct {
	Field    string
	Prompt   string
	Markup   *tele.ReplyMarkup
	Validate func(input string) (any, string)
}

// Descriptor is an immutable flow definition built at startup.
type Descriptor struct {
	Name  state.Flow
	Steps []Step

	// Complete performs the single backend mutation and the success reply.
	Complete func(ctx context.Context, c tele.Context, fields map[string]any) error
	// OnFailure sends the user-facing reply when Complete fails.
	OnFailure func(c tele.Context, err error) error
}
