package conform

import (
	"errors"
	"strings"
	"testing"

	"github.com/wizardformz/formkit/pkg/definition"
)

func leadForm(t *testing.T) *definition.FormDefinition {
	t.Helper()
	return definition.NewBuilder("Lead Capture").ID("lead").
		Step("About you").Text("Name", true).
		Step("Contact").Email("Email", true).Number("Team size", false).
		MustBuild()
}

func TestVerify_DefaultBattery(t *testing.T) {
	if err := Verify(leadForm(t)); err != nil {
		t.Fatalf("engines diverge: %v", err)
	}
}

func TestVerify_DelegatedForms(t *testing.T) {
	netlify := definition.NewBuilder("Newsletter").ID("nl").Netlify().
		Step("Only").Email("Email", true).
		MustBuild()
	if err := Verify(netlify); err != nil {
		t.Errorf("netlify form diverges: %v", err)
	}

	custom := definition.NewBuilder("Custom").ID("ca").Action("https://example.com/collect").
		Step("One").Text("Name", true).
		Step("Two").URL("Website", false).
		MustBuild()
	if err := Verify(custom); err != nil {
		t.Errorf("custom-action form diverges: %v", err)
	}
}

func TestVerify_EveryFieldType(t *testing.T) {
	def := definition.NewBuilder("Kitchen Sink").ID("ks").
		Step("One").Text("Text", true).Email("Email", true).Number("Number", true).
		Step("Two").Textarea("Notes", false).Tel("Phone", false).URL("Site", false).Date("When", true).
		MustBuild()
	if err := Verify(def); err != nil {
		t.Fatalf("engines diverge: %v", err)
	}
}

func TestReplay_InvalidThenFixedSubmit(t *testing.T) {
	def := leadForm(t)
	nameID := def.Steps[0].Fields[0].ID
	emailID := def.Steps[1].Fields[0].ID

	sc := Scenario{
		Name: "invalid submit then corrected submit",
		Ops: []Op{
			{Kind: OpOpen},
			Set(nameID, "Ada"),
			{Kind: OpAdvance},
			Set(emailID, "not-an-email"),
			{Kind: OpSubmit},
			Set(emailID, "ada@example.com"),
			{Kind: OpSubmit},
		},
	}
	if err := Replay(def, sc); err != nil {
		t.Fatalf("engines diverge: %v", err)
	}
}

func TestReplay_ValidationMessageParity(t *testing.T) {
	def := leadForm(t)
	emailID := def.Steps[1].Fields[0].ID
	sizeID := def.Steps[1].Fields[1].ID

	for _, sc := range []Scenario{
		{Name: "bad email", Ops: []Op{
			{Kind: OpOpen}, {Kind: OpAdvance}, Set(emailID, "a@b"), {Kind: OpSubmit},
		}},
		{Name: "bad number", Ops: []Op{
			{Kind: OpOpen}, {Kind: OpAdvance},
			Set(emailID, "a@b.co"), Set(sizeID, "abc"), {Kind: OpSubmit},
		}},
		{Name: "numeric edge values", Ops: []Op{
			{Kind: OpOpen}, {Kind: OpAdvance},
			Set(emailID, "a@b.co"), Set(sizeID, "3.14"), {Kind: OpSubmit},
		}},
		{Name: "whitespace-only number", Ops: []Op{
			{Kind: OpOpen}, {Kind: OpAdvance},
			Set(emailID, "a@b.co"), Set(sizeID, "   "), {Kind: OpSubmit},
		}},
		{Name: "literal NaN is not a number", Ops: []Op{
			{Kind: OpOpen}, {Kind: OpAdvance},
			Set(emailID, "a@b.co"), Set(sizeID, "NaN"), {Kind: OpSubmit},
		}},
	} {
		if err := Replay(def, sc); err != nil {
			t.Errorf("%s: %v", sc.Name, err)
		}
	}
}

func TestReplay_NumberLiteralParity(t *testing.T) {
	// Literals where Go float parsing and JavaScript Number coercion
	// disagree; the shared pattern must classify them identically.
	def := leadForm(t)
	emailID := def.Steps[1].Fields[0].ID
	sizeID := def.Steps[1].Fields[1].ID

	for _, v := range []string{"1_000", "0x10", "0b101", "0x1p4", "Infinity", "NaN", "   ", "1e3"} {
		sc := Scenario{
			Name: "number literal " + v,
			Ops: []Op{
				{Kind: OpOpen}, {Kind: OpAdvance},
				Set(emailID, "a@b.co"), Set(sizeID, v), {Kind: OpSubmit},
			},
		}
		if err := Replay(def, sc); err != nil {
			t.Errorf("%s: %v", sc.Name, err)
		}
	}
}

func TestReplay_ReportsDivergence(t *testing.T) {
	// A scenario against a doctored definition cannot diverge by
	// construction, so assert the error plumbing instead: an unknown op
	// must fail without wrapping ErrDivergence.
	def := leadForm(t)
	err := Replay(def, Scenario{Name: "bogus", Ops: []Op{{Kind: "warp"}}})
	if err == nil {
		t.Fatal("expected error for unknown op")
	}
	if errors.Is(err, ErrDivergence) {
		t.Error("unknown op misreported as divergence")
	}
	if !strings.Contains(err.Error(), "unknown op") {
		t.Errorf("unexpected error: %v", err)
	}
}
