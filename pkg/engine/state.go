package engine

// State is the ephemeral runtime state of one widget instance. It lives
// entirely client-side, is never persisted, and is discarded on close or
// after an accepted submit. The zero value is a closed widget on step 0.
type State struct {
	// StepIndex is the active step, in [0, len(steps)-1].
	StepIndex int

	// Values maps field id to the entered value. Keys appear only once
	// a value has been entered.
	Values map[string]string

	// Errors maps field id to its current validation message. Absent
	// means valid.
	Errors map[string]string

	// Open reports whether the modal surface is visible.
	Open bool
}

// NewState returns a fresh closed state.
func NewState() State {
	return State{
		Values: make(map[string]string),
		Errors: make(map[string]string),
	}
}

// clone returns a deep copy so transitions never alias the caller's maps.
func (s State) clone() State {
	c := State{
		StepIndex: s.StepIndex,
		Open:      s.Open,
		Values:    make(map[string]string, len(s.Values)),
		Errors:    make(map[string]string, len(s.Errors)),
	}
	for k, v := range s.Values {
		c.Values[k] = v
	}
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	return c
}

// HasErrors reports whether any field currently carries a message.
func (s State) HasErrors() bool {
	return len(s.Errors) > 0
}

// Value returns the entered value for a field, or "".
func (s State) Value(fieldID string) string {
	return s.Values[fieldID]
}

// Error returns the current message for a field, or "".
func (s State) Error(fieldID string) string {
	return s.Errors[fieldID]
}
