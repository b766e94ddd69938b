// Package widget binds the form engine to a live rendered surface. A
// Widget is one running instance of the interactive form: it owns its
// definition snapshot, its runtime state, and nothing else, so multiple
// instances never share mutable state. The preview server hosts one
// Widget per connection and re-renders after every handled event.
package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/engine"
	"github.com/wizardformz/formkit/pkg/logging"
)

// Widget events.
const (
	EventOpen     = "open"
	EventClose    = "close"
	EventInput    = "input"
	EventNext     = "next"
	EventPrevious = "previous"
	EventSubmit   = "submit"
)

// ErrUnknownEvent is returned for events the widget does not handle.
var ErrUnknownEvent = errors.New("unknown widget event")

// Widget is one interactive form instance.
type Widget struct {
	def    *definition.FormDefinition
	engine *engine.Engine
	state  engine.State
	last   *engine.Outcome
	logger logging.Logger
}

// Option configures a widget.
type Option func(*Widget)

// WithLogger sets the logger used for accepted submissions.
func WithLogger(l logging.Logger) Option {
	return func(w *Widget) {
		w.logger = l
	}
}

// New creates a widget for a validated definition.
func New(def *definition.FormDefinition, opts ...Option) (*Widget, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	w := &Widget{
		def:    def,
		engine: engine.New(def),
		state:  engine.NewState(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Definition returns the definition this widget renders.
func (w *Widget) Definition() *definition.FormDefinition {
	return w.def
}

// State returns the current runtime state.
func (w *Widget) State() engine.State {
	return w.state
}

// LastOutcome returns the outcome of the most recent submit event, or
// nil if no submit has happened since the last reset.
func (w *Widget) LastOutcome() *engine.Outcome {
	return w.last
}

// HandleEvent processes one user interaction. All decisions go through
// the engine; the widget only carries state between events.
func (w *Widget) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case EventOpen:
		w.state = w.engine.Open(w.state)
		w.last = nil
	case EventClose:
		w.state = w.engine.Close(w.state)
		w.last = nil
	case EventNext:
		w.state = w.engine.Advance(w.state)
	case EventPrevious:
		w.state = w.engine.Retreat(w.state)
	case EventInput:
		fieldID, _ := payload["field"].(string)
		value, _ := payload["value"].(string)
		if fieldID == "" {
			return fmt.Errorf("input event without field id")
		}
		w.state = w.engine.SetValue(w.state, fieldID, value)
	case EventSubmit:
		state, outcome := w.engine.Submit(w.state)
		w.state = state
		w.last = &outcome
		if outcome.Kind == engine.OutcomeAccepted {
			w.logger.Info("form submitted",
				logging.String("form_id", w.def.ID),
				logging.Int("fields", len(outcome.Values)))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return nil
}
