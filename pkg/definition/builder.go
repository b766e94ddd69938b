package definition

import (
	"github.com/google/uuid"

	"github.com/wizardformz/formkit/pkg/style"
)

// Builder provides a fluent API for authoring definitions in code.
// Field helpers attach to the most recently added step.
type Builder struct {
	def *FormDefinition
}

// NewBuilder starts a definition with a generated id and default styles.
func NewBuilder(title string) *Builder {
	return &Builder{
		def: &FormDefinition{
			ID:     uuid.NewString(),
			Title:  title,
			Styles: style.Defaults(),
		},
	}
}

// ID overrides the generated definition id.
func (b *Builder) ID(id string) *Builder {
	b.def.ID = id
	return b
}

// Netlify marks the form for Netlify-style delegated submission.
func (b *Builder) Netlify() *Builder {
	b.def.UseNetlify = true
	return b
}

// Action sets a custom submission URL for delegated submission.
func (b *Builder) Action(url string) *Builder {
	b.def.FormAction = url
	return b
}

// Styles replaces the default style tokens.
func (b *Builder) Styles(t style.Tokens) *Builder {
	b.def.Styles = t
	return b
}

// Step starts a new step; subsequent field helpers add to it.
func (b *Builder) Step(title string) *Builder {
	b.def.Steps = append(b.def.Steps, Step{
		ID:    uuid.NewString(),
		Title: title,
	})
	return b
}

// Field adds a field of an arbitrary type to the current step.
func (b *Builder) Field(fieldType FieldType, label string, required bool) *Builder {
	if len(b.def.Steps) == 0 {
		b.Step("")
	}
	step := &b.def.Steps[len(b.def.Steps)-1]
	step.Fields = append(step.Fields, Field{
		ID:       uuid.NewString(),
		Type:     fieldType,
		Label:    label,
		Required: required,
	})
	return b
}

// Text adds a text field to the current step.
func (b *Builder) Text(label string, required bool) *Builder {
	return b.Field(FieldText, label, required)
}

// Email adds an email field to the current step.
func (b *Builder) Email(label string, required bool) *Builder {
	return b.Field(FieldEmail, label, required)
}

// Number adds a number field to the current step.
func (b *Builder) Number(label string, required bool) *Builder {
	return b.Field(FieldNumber, label, required)
}

// Textarea adds a textarea field to the current step.
func (b *Builder) Textarea(label string, required bool) *Builder {
	return b.Field(FieldTextarea, label, required)
}

// Tel adds a telephone field to the current step.
func (b *Builder) Tel(label string, required bool) *Builder {
	return b.Field(FieldTel, label, required)
}

// URL adds a URL field to the current step.
func (b *Builder) URL(label string, required bool) *Builder {
	return b.Field(FieldURL, label, required)
}

// Date adds a date field to the current step.
func (b *Builder) Date(label string, required bool) *Builder {
	return b.Field(FieldDate, label, required)
}

// Build validates and returns the definition.
func (b *Builder) Build() (*FormDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return b.def, nil
}

// MustBuild is Build for definitions known to be well formed, such as
// examples and tests. It panics on validation failure.
func (b *Builder) MustBuild() *FormDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
