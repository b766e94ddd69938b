// Package style defines the presentation tokens carried by a form
// definition. Tokens are opaque pass-through values: the engine never
// interprets them, it only substitutes them into rendered output.
package style

// Tokens is the flat set of presentation tokens for a widget.
// Every group has enumerated, typed keys so the renderer and the
// embed generator share a single validated shape.
type Tokens struct {
	Colors     Colors     `json:"colors"`
	Typography Typography `json:"typography"`
	Spacing    Spacing    `json:"spacing"`
	Borders    Borders    `json:"borders"`
	Buttons    Buttons    `json:"buttons"`
}

// Colors holds the color tokens as CSS color strings.
type Colors struct {
	Primary    string `json:"primary"`
	Success    string `json:"success"`
	Error      string `json:"error"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

// Typography holds font sizing tokens as CSS length strings.
type Typography struct {
	FontSize  string `json:"fontSize"`
	TitleSize string `json:"titleSize"`
	LabelSize string `json:"labelSize"`
}

// Spacing holds layout tokens as CSS length strings.
type Spacing struct {
	Padding      string `json:"padding"`
	BorderRadius string `json:"borderRadius"`
	ModalWidth   string `json:"modalWidth"`
}

// Borders holds input border tokens.
type Borders struct {
	Width string `json:"width"`
	Style string `json:"style"`
}

// Buttons holds the widget button labels.
type Buttons struct {
	OpenText     string `json:"openText"`
	NextText     string `json:"nextText"`
	PreviousText string `json:"previousText"`
	SubmitText   string `json:"submitText"`
}

// Defaults returns the token values a freshly authored form starts with.
func Defaults() Tokens {
	return Tokens{
		Colors: Colors{
			Primary:    "#3b82f6",
			Success:    "#10b981",
			Error:      "#ef4444",
			Text:       "#374151",
			Background: "#ffffff",
			Border:     "#d1d5db",
		},
		Typography: Typography{
			FontSize:  "16px",
			TitleSize: "1.25rem",
			LabelSize: "0.875rem",
		},
		Spacing: Spacing{
			Padding:      "0.75rem",
			BorderRadius: "0.375rem",
			ModalWidth:   "500px",
		},
		Borders: Borders{
			Width: "1px",
			Style: "solid",
		},
		Buttons: Buttons{
			OpenText:     "Open Form",
			NextText:     "Next",
			PreviousText: "Previous",
			SubmitText:   "Submit",
		},
	}
}

// OpenLabel returns the trigger button label, falling back to a
// title-derived default when the token is blank.
func (b Buttons) OpenLabel(title string) string {
	if b.OpenText != "" {
		return b.OpenText
	}
	return "Open " + title
}

// NextLabel returns the next button label or its default.
func (b Buttons) NextLabel() string {
	if b.NextText != "" {
		return b.NextText
	}
	return "Next"
}

// PreviousLabel returns the previous button label or its default.
func (b Buttons) PreviousLabel() string {
	if b.PreviousText != "" {
		return b.PreviousText
	}
	return "Previous"
}

// SubmitLabel returns the submit button label or its default.
func (b Buttons) SubmitLabel() string {
	if b.SubmitText != "" {
		return b.SubmitText
	}
	return "Submit"
}
