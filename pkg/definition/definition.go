// Package definition holds the declarative model of a multi-step form:
// steps, fields, style tokens, and the submission target. A definition
// is authored externally, fetched as an immutable snapshot, and handed
// to the engine, the widget renderer, and the embed generator.
package definition

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/wizardformz/formkit/pkg/style"
)

// Common definition errors.
var (
	ErrDuplicateFieldID = errors.New("duplicate field id")
	ErrDuplicateStepID  = errors.New("duplicate step id")
)

// FieldType identifies the input control a field renders as.
type FieldType string

// Supported field types.
const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldTel      FieldType = "tel"
	FieldURL      FieldType = "url"
	FieldDate     FieldType = "date"
)

// Field is a single input in a step. The id doubles as the submission
// key, which is why ids must be unique across the whole definition.
type Field struct {
	ID       string    `json:"id" validate:"required"`
	Type     FieldType `json:"type" validate:"required,oneof=text email number textarea tel url date"`
	Label    string    `json:"label" validate:"required"`
	Required bool      `json:"required"`
}

// Step is one page of the form. Order within Steps is the navigation order.
type Step struct {
	ID     string  `json:"id" validate:"required"`
	Title  string  `json:"title" validate:"required"`
	Fields []Field `json:"fields" validate:"required,min=1,dive"`
}

// FormDefinition is the full declarative description of a form.
type FormDefinition struct {
	ID         string       `json:"id" validate:"required"`
	Title      string       `json:"title" validate:"required"`
	UseNetlify bool         `json:"useNetlify"`
	FormAction string       `json:"formAction,omitempty"`
	Steps      []Step       `json:"steps" validate:"required,min=1,dive"`
	Styles     style.Tokens `json:"styles"`
}

var validate = validator.New()

// Parse decodes a definition from its external JSON form and validates it.
func Parse(data []byte) (*FormDefinition, error) {
	var def FormDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the authoring-time invariants: required titles and
// labels, at least one field per step, known field types, and id
// uniqueness. Duplicate field ids are rejected outright; allowing them
// would let one field's value silently overwrite another's on submit.
func (d *FormDefinition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}

	stepIDs := make(map[string]struct{}, len(d.Steps))
	fieldIDs := make(map[string]struct{})
	for _, step := range d.Steps {
		if _, dup := stepIDs[step.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateStepID, step.ID)
		}
		stepIDs[step.ID] = struct{}{}

		for _, field := range step.Fields {
			if _, dup := fieldIDs[field.ID]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateFieldID, field.ID)
			}
			fieldIDs[field.ID] = struct{}{}
		}
	}
	return nil
}

// Encode serializes the definition back to its external JSON form.
func (d *FormDefinition) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// FieldCount returns the total number of fields across all steps.
func (d *FormDefinition) FieldCount() int {
	n := 0
	for _, step := range d.Steps {
		n += len(step.Fields)
	}
	return n
}

// FieldByID looks up a field anywhere in the definition.
func (d *FormDefinition) FieldByID(id string) (Field, bool) {
	for _, step := range d.Steps {
		for _, field := range step.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Delegated reports whether final submission is handed to the browser's
// native form handling instead of the in-page success path.
func (d *FormDefinition) Delegated() bool {
	return d.UseNetlify || d.FormAction != ""
}
