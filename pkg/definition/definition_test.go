package definition

import (
	"encoding/json"
	"errors"
	"testing"
)

const sampleJSON = `{
  "id": "f-1",
  "title": "Contact Us",
  "useNetlify": true,
  "steps": [
    {
      "id": "s-1",
      "title": "About you",
      "fields": [
        {"id": "name", "type": "text", "label": "Name", "required": true},
        {"id": "email", "type": "email", "label": "Email", "required": true}
      ]
    }
  ],
  "styles": {
    "colors": {"primary": "#3b82f6", "success": "#10b981", "error": "#ef4444",
      "text": "#374151", "background": "#ffffff", "border": "#d1d5db"},
    "typography": {"fontSize": "16px", "titleSize": "1.25rem", "labelSize": "0.875rem"},
    "spacing": {"padding": "0.75rem", "borderRadius": "0.375rem", "modalWidth": "500px"},
    "borders": {"width": "1px", "style": "solid"},
    "buttons": {"openText": "Open Form", "nextText": "Next",
      "previousText": "Previous", "submitText": "Submit"}
  }
}`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if def.ID != "f-1" || def.Title != "Contact Us" {
		t.Errorf("unexpected identity: %q %q", def.ID, def.Title)
	}
	if !def.UseNetlify || def.FormAction != "" {
		t.Errorf("unexpected submission target: netlify=%v action=%q", def.UseNetlify, def.FormAction)
	}
	if len(def.Steps) != 1 || len(def.Steps[0].Fields) != 2 {
		t.Fatalf("unexpected shape: %+v", def.Steps)
	}
	if def.Steps[0].Fields[1].Type != FieldEmail {
		t.Errorf("field type = %q, want email", def.Steps[0].Fields[1].Type)
	}
	if def.Styles.Colors.Primary != "#3b82f6" {
		t.Errorf("style token lost: %q", def.Styles.Colors.Primary)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	def, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	encoded, err := def.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	again, err := Parse(encoded)
	if err != nil {
		t.Fatalf("re-Parse failed: %v", err)
	}
	a, _ := json.Marshal(def)
	b, _ := json.Marshal(again)
	if string(a) != string(b) {
		t.Errorf("round trip changed the definition:\n%s\n%s", a, b)
	}
}

func TestValidate_RejectsDuplicateFieldIDs(t *testing.T) {
	def := &FormDefinition{
		ID:    "f",
		Title: "Dup",
		Steps: []Step{
			{ID: "a", Title: "One", Fields: []Field{
				{ID: "x", Type: FieldText, Label: "First"},
			}},
			{ID: "b", Title: "Two", Fields: []Field{
				{ID: "x", Type: FieldText, Label: "Second"},
			}},
		},
	}
	err := def.Validate()
	if !errors.Is(err, ErrDuplicateFieldID) {
		t.Errorf("expected ErrDuplicateFieldID, got %v", err)
	}
}

func TestValidate_RejectsDuplicateStepIDs(t *testing.T) {
	def := &FormDefinition{
		ID:    "f",
		Title: "Dup",
		Steps: []Step{
			{ID: "a", Title: "One", Fields: []Field{{ID: "x", Type: FieldText, Label: "X"}}},
			{ID: "a", Title: "Two", Fields: []Field{{ID: "y", Type: FieldText, Label: "Y"}}},
		},
	}
	if err := def.Validate(); !errors.Is(err, ErrDuplicateStepID) {
		t.Errorf("expected ErrDuplicateStepID, got %v", err)
	}
}

func TestValidate_RejectsMalformedDefinitions(t *testing.T) {
	cases := []struct {
		name string
		def  FormDefinition
	}{
		{"blank title", FormDefinition{ID: "f", Steps: []Step{
			{ID: "s", Title: "S", Fields: []Field{{ID: "x", Type: FieldText, Label: "X"}}},
		}}},
		{"no steps", FormDefinition{ID: "f", Title: "T"}},
		{"step without fields", FormDefinition{ID: "f", Title: "T", Steps: []Step{
			{ID: "s", Title: "S"},
		}}},
		{"blank field label", FormDefinition{ID: "f", Title: "T", Steps: []Step{
			{ID: "s", Title: "S", Fields: []Field{{ID: "x", Type: FieldText}}},
		}}},
		{"unknown field type", FormDefinition{ID: "f", Title: "T", Steps: []Step{
			{ID: "s", Title: "S", Fields: []Field{{ID: "x", Type: "color", Label: "X"}}},
		}}},
	}
	for _, tc := range cases {
		if err := tc.def.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestBuilder(t *testing.T) {
	def, err := NewBuilder("Lead Capture").
		Netlify().
		Step("About you").Text("Name", true).Tel("Phone", false).
		Step("Details").Email("Email", true).Number("Team size", false).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if def.ID == "" {
		t.Error("builder did not assign an id")
	}
	if len(def.Steps) != 2 || len(def.Steps[0].Fields) != 2 || len(def.Steps[1].Fields) != 2 {
		t.Fatalf("unexpected shape: %+v", def.Steps)
	}
	if !def.Delegated() {
		t.Error("netlify form should delegate submission")
	}
	if def.Styles.Buttons.SubmitText != "Submit" {
		t.Errorf("default styles missing: %+v", def.Styles.Buttons)
	}

	seen := map[string]bool{}
	for _, s := range def.Steps {
		for _, f := range s.Fields {
			if seen[f.ID] {
				t.Errorf("builder produced duplicate field id %q", f.ID)
			}
			seen[f.ID] = true
		}
	}
}

func TestFieldByID(t *testing.T) {
	def, _ := Parse([]byte(sampleJSON))
	f, ok := def.FieldByID("email")
	if !ok || f.Type != FieldEmail {
		t.Errorf("FieldByID(email) = %+v, %v", f, ok)
	}
	if _, ok := def.FieldByID("missing"); ok {
		t.Error("found a field that does not exist")
	}
}
