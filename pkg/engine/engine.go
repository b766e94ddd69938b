// Package engine implements the step navigation and validation rules of
// a multi-step form as pure functions over explicit state. It has no DOM
// or framework dependency: the interactive widget binds it to a live
// surface, and the embed generator serializes the same behavior into a
// standalone script.
package engine

import (
	"regexp"

	"github.com/wizardformz/formkit/pkg/definition"
)

var (
	emailRe  = regexp.MustCompile(EmailPattern)
	numberRe = regexp.MustCompile(NumberPattern)
)

// OutcomeKind classifies the result of a submit attempt.
type OutcomeKind int

const (
	// OutcomeInvalid means current-step validation failed; nothing was
	// submitted and the errors are surfaced inline.
	OutcomeInvalid OutcomeKind = iota

	// OutcomeAccepted means validation passed and the values are handed
	// to the caller as an in-page success. State resets afterwards.
	OutcomeAccepted

	// OutcomeDelegated means validation passed and the runtime must
	// perform a native form submission (Netlify or custom action).
	OutcomeDelegated
)

// String returns the wire name of the outcome kind, matching the kind
// strings produced by the generated script.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDelegated:
		return "delegated"
	default:
		return "invalid"
	}
}

// Outcome is the result of Submit.
type Outcome struct {
	Kind   OutcomeKind
	Errors map[string]string
	Values map[string]string
}

// Engine applies a definition's rules to runtime state. All transition
// methods are pure: they return a new State and never mutate the input.
type Engine struct {
	def *definition.FormDefinition
}

// New creates an engine for a definition. The definition is treated as
// an immutable snapshot.
func New(def *definition.FormDefinition) *Engine {
	return &Engine{def: def}
}

// Definition returns the definition the engine was built from.
func (e *Engine) Definition() *definition.FormDefinition {
	return e.def
}

// StepCount returns the number of steps.
func (e *Engine) StepCount() int {
	return len(e.def.Steps)
}

// CurrentStep returns the step the state points at.
func (e *Engine) CurrentStep(s State) definition.Step {
	return e.def.Steps[s.StepIndex]
}

// OnLastStep reports whether the state is on the final step.
func (e *Engine) OnLastStep(s State) bool {
	return s.StepIndex >= len(e.def.Steps)-1
}

// ValidateField checks one field's value. Rules apply in order and only
// the first failing rule produces a message: required, then email shape,
// then numeric shape. A blank optional value always passes.
func ValidateField(f definition.Field, value string) string {
	if f.Required && value == "" {
		return MsgRequired
	}
	if value == "" {
		return ""
	}
	switch f.Type {
	case definition.FieldEmail:
		if !emailRe.MatchString(value) {
			return MsgInvalidEmail
		}
	case definition.FieldNumber:
		if !isNumeric(value) {
			return MsgInvalidNum
		}
	}
	return ""
}

// ValidateStep validates every field in a step against the given values,
// regardless of any previously recorded result. Only failing fields
// appear in the returned map.
func ValidateStep(step definition.Step, values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, f := range step.Fields {
		if msg := ValidateField(f, values[f.ID]); msg != "" {
			errs[f.ID] = msg
		}
	}
	return errs
}

// Advance moves to the next step. The current step is fully re-validated
// and the resulting messages replace the recorded errors, but navigation
// is not blocked by validation failures. Calling Advance on the last
// step is a no-op.
func (e *Engine) Advance(s State) State {
	if e.OnLastStep(s) {
		return s
	}
	next := s.clone()
	next.Errors = ValidateStep(e.def.Steps[s.StepIndex], s.Values)
	next.StepIndex++
	return next
}

// Retreat moves to the previous step, clamped at step 0. Values and
// errors are untouched.
func (e *Engine) Retreat(s State) State {
	if s.StepIndex == 0 {
		return s
	}
	prev := s.clone()
	prev.StepIndex--
	return prev
}

// SetValue records a field value. A stale message on that field is
// cleared optimistically; no re-validation happens until the next
// navigation or submit.
func (e *Engine) SetValue(s State, fieldID, value string) State {
	next := s.clone()
	next.Values[fieldID] = value
	delete(next.Errors, fieldID)
	return next
}

// Submit attempts final submission from the current step. Only the
// current step's fields are re-validated. On failure the errors are
// recorded and nothing is submitted. On success the outcome is either
// delegated to the host form (Netlify or custom action) or accepted
// in-page, in which case the state resets to initial.
func (e *Engine) Submit(s State) (State, Outcome) {
	errs := ValidateStep(e.def.Steps[s.StepIndex], s.Values)
	if len(errs) > 0 {
		next := s.clone()
		next.Errors = errs
		return next, Outcome{Kind: OutcomeInvalid, Errors: errs}
	}

	if e.def.Delegated() {
		next := s.clone()
		next.Errors = make(map[string]string)
		return next, Outcome{Kind: OutcomeDelegated, Values: s.clone().Values}
	}

	return NewState(), Outcome{Kind: OutcomeAccepted, Values: s.clone().Values}
}

// Open transitions Closed -> Open(0) with a full reset.
func (e *Engine) Open(State) State {
	s := NewState()
	s.Open = true
	return s
}

// Close discards all in-progress state, equivalent to cancellation with
// no partial-save semantics.
func (e *Engine) Close(State) State {
	return NewState()
}

// isNumeric applies the shared numeric-shape rule. The generated script
// tests the same pattern source, so both renditions accept exactly the
// same inputs.
func isNumeric(v string) bool {
	return numberRe.MatchString(v)
}
