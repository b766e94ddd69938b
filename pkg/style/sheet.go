package style

import (
	"fmt"
	"strings"
)

// ContainerID returns the id of the host element a widget mounts into.
func ContainerID(formID string) string {
	return "form-widget-" + formID
}

// Sheet generates the widget stylesheet for one form. Every selector is
// scoped under the form's container id so two widgets on the same host
// page never share rules. Output is deterministic for a given input.
func Sheet(formID string, t Tokens) string {
	scope := "#" + ContainerID(formID)

	var sb strings.Builder
	rule := func(selector, body string) {
		sb.WriteString(scope)
		sb.WriteString(" ")
		sb.WriteString(selector)
		sb.WriteString(" {\n")
		sb.WriteString(body)
		sb.WriteString("}\n")
	}

	rule(".msf-modal-overlay", `  position: fixed;
  top: 0;
  left: 0;
  right: 0;
  bottom: 0;
  background-color: rgba(0, 0, 0, 0.5);
  display: none;
  align-items: center;
  justify-content: center;
  padding: 1rem;
  z-index: 9999;
`)
	rule(".msf-modal-overlay.active", "  display: flex;\n")
	rule(".msf-modal-content", fmt.Sprintf(`  background: %s;
  padding: 2rem;
  border-radius: %s;
  width: 100%%;
  max-width: %s;
  max-height: 90vh;
  overflow-y: auto;
  position: relative;
`, t.Colors.Background, t.Spacing.BorderRadius, t.Spacing.ModalWidth))
	rule(".msf-header", `  display: flex;
  justify-content: space-between;
  align-items: center;
  margin-bottom: 1.5rem;
  padding-right: 1.5rem;
`)
	rule(".msf-form-title", fmt.Sprintf(`  font-size: %s;
  font-weight: 600;
  color: %s;
  margin: 0;
`, t.Typography.TitleSize, t.Colors.Text))
	rule(".msf-button", fmt.Sprintf(`  background: %s;
  color: white;
  padding: %s;
  border-radius: %s;
  border: none;
  cursor: pointer;
  font-size: %s;
  transition: background-color 0.2s;
`, t.Colors.Primary, t.Spacing.Padding, t.Spacing.BorderRadius, t.Typography.FontSize))
	rule(".msf-button:hover", fmt.Sprintf("  background: %sdd;\n", t.Colors.Primary))
	rule(`.msf-button[type="submit"]`, fmt.Sprintf("  background: %s;\n", t.Colors.Success))
	rule(`.msf-button[type="submit"]:hover`, fmt.Sprintf("  background: %sdd;\n", t.Colors.Success))
	rule(".msf-input", fmt.Sprintf(`  width: 100%%;
  padding: %s;
  border: %s %s %s;
  border-radius: %s;
  margin-bottom: 0.5rem;
  font-size: %s;
  color: %s;
  transition: border-color 0.2s, box-shadow 0.2s;
`, t.Spacing.Padding, t.Borders.Width, t.Borders.Style, t.Colors.Border,
		t.Spacing.BorderRadius, t.Typography.FontSize, t.Colors.Text))
	rule(".msf-input:focus", fmt.Sprintf(`  outline: none;
  border-color: %s;
  box-shadow: 0 0 0 3px %s22;
`, t.Colors.Primary, t.Colors.Primary))
	rule(".msf-input.error", fmt.Sprintf("  border-color: %s;\n", t.Colors.Error))
	rule(".msf-label", fmt.Sprintf(`  display: block;
  margin-bottom: 0.5rem;
  font-weight: 500;
  color: %s;
  font-size: %s;
`, t.Colors.Text, t.Typography.LabelSize))
	rule(".msf-error", fmt.Sprintf(`  color: %s;
  font-size: %s;
  margin-top: 0.25rem;
  margin-bottom: 0.5rem;
  display: none;
`, t.Colors.Error, t.Typography.LabelSize))
	rule(".msf-error.active", "  display: block;\n")
	rule(".msf-progress", `  display: flex;
  gap: 0.25rem;
  margin-bottom: 1.5rem;
`)
	rule(".msf-progress-step", fmt.Sprintf(`  height: 0.25rem;
  flex: 1;
  background: %s;
  border-radius: %s;
  transition: background-color 0.3s;
`, t.Colors.Border, t.Spacing.BorderRadius))
	rule(".msf-progress-step.active", fmt.Sprintf("  background: %s;\n", t.Colors.Primary))
	rule(".msf-step-title", fmt.Sprintf(`  font-size: %s;
  font-weight: 600;
  color: %s;
  margin-bottom: 1.5rem;
`, t.Typography.TitleSize, t.Colors.Text))
	rule(".msf-close", fmt.Sprintf(`  position: absolute;
  right: 1rem;
  top: 0.75rem;
  background: none;
  border: none;
  font-size: 1.5rem;
  color: %s;
  cursor: pointer;
  padding: 0.25rem;
  line-height: 1;
  transition: color 0.2s;
  z-index: 1;
`, t.Colors.Text))
	rule(".msf-close:hover", fmt.Sprintf("  color: %sdd;\n", t.Colors.Text))
	rule(".msf-buttons", `  display: flex;
  justify-content: flex-end;
  margin-top: 2rem;
  gap: 1rem;
`)
	rule(".msf-field", "  margin-bottom: 1.5rem;\n")
	rule("textarea.msf-input", `  min-height: 100px;
  resize: vertical;
`)
	rule("[data-step]", "  display: none;\n")
	rule("[data-step].active", "  display: block;\n")

	return sb.String()
}
