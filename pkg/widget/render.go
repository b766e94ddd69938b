package widget

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/style"
)

// Render writes the widget's current markup. The structure mirrors the
// DOM the generated embed script builds, element for element, so the
// in-app preview and the embedded widget look and behave the same:
// trigger button, modal overlay, progress bar, one panel per step,
// inline error slots, and position-dependent navigation buttons.
// Interactive elements carry data-action attributes for the preview
// shell to bind events to.
func (w *Widget) Render(ctx context.Context, out io.Writer) error {
	_, err := io.WriteString(out, w.HTML())
	return err
}

// HTML returns the widget's current markup as a string.
func (w *Widget) HTML() string {
	def := w.def
	state := w.state

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<button class="msf-button" data-action="open">%s</button>`,
		html.EscapeString(def.Styles.Buttons.OpenLabel(def.Title))))
	sb.WriteString("\n")

	overlay := "msf-modal-overlay"
	if state.Open {
		overlay += " active"
	}
	sb.WriteString(fmt.Sprintf(`<div class="%s">`, overlay))
	sb.WriteString(`<div class="msf-modal-content">`)
	sb.WriteString(`<button type="button" class="msf-close" data-action="close">&times;</button>`)

	sb.WriteString(`<div class="msf-header">`)
	sb.WriteString(fmt.Sprintf(`<h2 class="msf-form-title">%s</h2>`, html.EscapeString(def.Title)))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="msf-progress">`)
	for i := range def.Steps {
		seg := "msf-progress-step"
		if i <= state.StepIndex {
			seg += " active"
		}
		sb.WriteString(fmt.Sprintf(`<div class="%s"></div>`, seg))
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<form method="POST"`)
	if def.UseNetlify {
		sb.WriteString(` data-netlify="true"`)
	}
	if def.FormAction != "" {
		sb.WriteString(fmt.Sprintf(` action="%s"`, html.EscapeString(def.FormAction)))
	}
	sb.WriteString(` data-action="submit">`)
	if def.UseNetlify {
		sb.WriteString(fmt.Sprintf(`<input type="hidden" name="form-name" value="%s">`,
			html.EscapeString(def.Title)))
	}

	for i, step := range def.Steps {
		w.renderStep(&sb, step, i)
	}

	w.renderButtons(&sb)

	sb.WriteString(`</form>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`</div>`)
	sb.WriteString("\n")

	return sb.String()
}

// StyleSheet returns the scoped stylesheet for this widget, ready to be
// placed in a <style data-form-id="..."> tag by the hosting page.
func (w *Widget) StyleSheet() string {
	return style.Sheet(w.def.ID, w.def.Styles)
}

func (w *Widget) renderStep(sb *strings.Builder, step definition.Step, index int) {
	cls := ""
	if index == w.state.StepIndex {
		cls = ` class="active"`
	}
	sb.WriteString(fmt.Sprintf(`<div data-step="%d"%s>`, index, cls))
	sb.WriteString(fmt.Sprintf(`<h3 class="msf-step-title">%s</h3>`, html.EscapeString(step.Title)))
	for _, field := range step.Fields {
		w.renderField(sb, field)
	}
	sb.WriteString(`</div>`)
}

func (w *Widget) renderField(sb *strings.Builder, field definition.Field) {
	errMsg := w.state.Error(field.ID)

	sb.WriteString(`<div class="msf-field">`)

	sb.WriteString(`<label class="msf-label">`)
	sb.WriteString(html.EscapeString(field.Label))
	if field.Required {
		sb.WriteString(fmt.Sprintf(`<span style="color: %s"> *</span>`,
			html.EscapeString(w.def.Styles.Colors.Error)))
	}
	sb.WriteString(`</label>`)

	inputClass := "msf-input"
	if errMsg != "" {
		inputClass += " error"
	}
	value := w.state.Value(field.ID)
	if field.Type == definition.FieldTextarea {
		sb.WriteString(fmt.Sprintf(`<textarea class="%s" name="%s" data-action="input">%s</textarea>`,
			inputClass, html.EscapeString(field.ID), html.EscapeString(value)))
	} else {
		sb.WriteString(fmt.Sprintf(`<input class="%s" type="%s" name="%s" value="%s" data-action="input">`,
			inputClass, field.Type, html.EscapeString(field.ID), html.EscapeString(value)))
	}

	errClass := "msf-error"
	if errMsg != "" {
		errClass += " active"
	}
	sb.WriteString(fmt.Sprintf(`<div class="%s">%s</div>`, errClass, html.EscapeString(errMsg)))

	sb.WriteString(`</div>`)
}

func (w *Widget) renderButtons(sb *strings.Builder) {
	last := len(w.def.Steps) - 1
	idx := w.state.StepIndex

	prevStyle := ` style="display: none"`
	if idx > 0 {
		prevStyle = ""
	}
	nextStyle := ""
	submitStyle := ` style="display: none"`
	if idx == last {
		nextStyle = ` style="display: none"`
		submitStyle = ""
	}

	sb.WriteString(`<div class="msf-buttons">`)
	sb.WriteString(fmt.Sprintf(`<button type="button" class="msf-button" data-action="previous"%s>%s</button>`,
		prevStyle, html.EscapeString(w.def.Styles.Buttons.PreviousLabel())))
	sb.WriteString(fmt.Sprintf(`<button type="button" class="msf-button" data-action="next"%s>%s</button>`,
		nextStyle, html.EscapeString(w.def.Styles.Buttons.NextLabel())))
	sb.WriteString(fmt.Sprintf(`<button type="submit" class="msf-button"%s>%s</button>`,
		submitStyle, html.EscapeString(w.def.Styles.Buttons.SubmitLabel())))
	sb.WriteString(`</div>`)
}
