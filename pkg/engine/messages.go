package engine

// Validation messages shown inline next to a failing field. The embed
// generator splices these same literals into the generated script, so
// the interactive widget and the embedded widget can never disagree on
// wording.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
	MsgInvalidNum   = "Please enter a valid number"
)

// EmailPattern is the local@domain.tld shape check applied to email
// fields. The pattern is valid both as a Go regexp and as a JavaScript
// regex literal body; the embed generator reuses the same source text.
const EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

// NumberPattern is the shape check applied to number fields: an
// optionally signed decimal with optional fraction and exponent,
// surrounded by optional whitespace. Host-language float parsing is
// not used for this rule; Go and JavaScript disagree on underscore
// separators and prefixed literals, so both renditions test this same
// pattern instead.
const NumberPattern = `^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`
