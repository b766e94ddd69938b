// Package conform proves that the Go engine and the generated
// JavaScript engine implement the same navigation and validation rules.
// It executes the emitted engine script in an embedded JavaScript VM,
// replays an operation scenario through both renditions, and compares
// the resulting states and submit outcomes after every operation.
package conform

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/dop251/goja"

	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/embedjs"
	"github.com/wizardformz/formkit/pkg/engine"
)

// ErrDivergence is wrapped by every mismatch reported from a replay.
var ErrDivergence = errors.New("engine divergence")

// OpKind identifies a replayed user action.
type OpKind string

// Replayable operations.
const (
	OpOpen     OpKind = "open"
	OpClose    OpKind = "close"
	OpAdvance  OpKind = "advance"
	OpRetreat  OpKind = "retreat"
	OpSetValue OpKind = "setValue"
	OpSubmit   OpKind = "submit"
)

// Op is one user action in a scenario.
type Op struct {
	Kind    OpKind
	FieldID string
	Value   string
}

// Set builds a setValue op.
func Set(fieldID, value string) Op {
	return Op{Kind: OpSetValue, FieldID: fieldID, Value: value}
}

// Scenario is a named operation sequence.
type Scenario struct {
	Name string
	Ops  []Op
}

// snapshot is the state shape shared by both engines for comparison.
type snapshot struct {
	StepIndex int               `json:"stepIndex"`
	Values    map[string]string `json:"values"`
	Errors    map[string]string `json:"errors"`
	Open      bool              `json:"open"`
}

type jsOutcome struct {
	Kind   string            `json:"kind"`
	Errors map[string]string `json:"errors"`
	Values map[string]string `json:"values"`
}

type jsResult struct {
	State    snapshot    `json:"state"`
	Outcomes []jsOutcome `json:"outcomes"`
}

func snapshotOf(s engine.State) snapshot {
	snap := snapshot{
		StepIndex: s.StepIndex,
		Open:      s.Open,
		Values:    map[string]string{},
		Errors:    map[string]string{},
	}
	for k, v := range s.Values {
		snap.Values[k] = v
	}
	for k, v := range s.Errors {
		snap.Errors[k] = v
	}
	return snap
}

// Replay runs one scenario through the Go engine and the generated
// JavaScript engine, comparing state after every operation and the
// outcome of every submit. It returns a wrapped ErrDivergence on the
// first mismatch.
func Replay(def *definition.FormDefinition, sc Scenario) error {
	eng := engine.New(def)
	goState := engine.NewState()
	var goOutcomes []engine.Outcome

	vm := goja.New()
	if _, err := vm.RunString(embedjs.New(def).EngineScript()); err != nil {
		return fmt.Errorf("load engine script: %w", err)
	}
	configJSON, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	boot := fmt.Sprintf(`var engine = createFormEngine(%s);
var state = engine.newState();
var outcomes = [];`, configJSON)
	if _, err := vm.RunString(boot); err != nil {
		return fmt.Errorf("boot js engine: %w", err)
	}

	for i, op := range sc.Ops {
		var jsStmt string
		switch op.Kind {
		case OpOpen:
			goState = eng.Open(goState)
			jsStmt = "state = engine.open(state);"
		case OpClose:
			goState = eng.Close(goState)
			jsStmt = "state = engine.close(state);"
		case OpAdvance:
			goState = eng.Advance(goState)
			jsStmt = "state = engine.advance(state);"
		case OpRetreat:
			goState = eng.Retreat(goState)
			jsStmt = "state = engine.retreat(state);"
		case OpSetValue:
			goState = eng.SetValue(goState, op.FieldID, op.Value)
			jsStmt = fmt.Sprintf("state = engine.setValue(state, %s, %s);",
				mustJSON(op.FieldID), mustJSON(op.Value))
		case OpSubmit:
			var outcome engine.Outcome
			goState, outcome = eng.Submit(goState)
			goOutcomes = append(goOutcomes, outcome)
			jsStmt = "outcomes.push(engine.submit(state));"
		default:
			return fmt.Errorf("scenario %q: unknown op %q", sc.Name, op.Kind)
		}

		if _, err := vm.RunString(jsStmt); err != nil {
			return fmt.Errorf("scenario %q op %d (%s): js error: %w", sc.Name, i, op.Kind, err)
		}

		js, err := export(vm)
		if err != nil {
			return fmt.Errorf("scenario %q op %d: %w", sc.Name, i, err)
		}
		if got, want := js.State, snapshotOf(goState); !reflect.DeepEqual(got, want) {
			return fmt.Errorf("%w: scenario %q op %d (%s): js state %+v, go state %+v",
				ErrDivergence, sc.Name, i, op.Kind, got, want)
		}
	}

	js, err := export(vm)
	if err != nil {
		return fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	if len(js.Outcomes) != len(goOutcomes) {
		return fmt.Errorf("%w: scenario %q: %d js outcomes, %d go outcomes",
			ErrDivergence, sc.Name, len(js.Outcomes), len(goOutcomes))
	}
	for i, jso := range js.Outcomes {
		goo := goOutcomes[i]
		if jso.Kind != goo.Kind.String() {
			return fmt.Errorf("%w: scenario %q submit %d: js kind %q, go kind %q",
				ErrDivergence, sc.Name, i, jso.Kind, goo.Kind)
		}
		if !sameStringMap(jso.Errors, goo.Errors) {
			return fmt.Errorf("%w: scenario %q submit %d: js errors %v, go errors %v",
				ErrDivergence, sc.Name, i, jso.Errors, goo.Errors)
		}
		if !sameStringMap(jso.Values, goo.Values) {
			return fmt.Errorf("%w: scenario %q submit %d: js values %v, go values %v",
				ErrDivergence, sc.Name, i, jso.Values, goo.Values)
		}
	}
	return nil
}

// Verify replays the default scenario battery for a definition. A nil
// return means the generated script and the Go engine agree on every
// covered transition.
func Verify(def *definition.FormDefinition) error {
	for _, sc := range DefaultScenarios(def) {
		if err := Replay(def, sc); err != nil {
			return err
		}
	}
	return nil
}

// DefaultScenarios builds a scenario battery from a definition's own
// shape: the canonical next-then-submit regression, a fully valid walk,
// boundary navigation, optimistic error clearing, close/reopen, and an
// adversarial sweep of boundary literals over every field.
func DefaultScenarios(def *definition.FormDefinition) []Scenario {
	advanceAll := make([]Op, 0, len(def.Steps))
	for i := 0; i < len(def.Steps)-1; i++ {
		advanceAll = append(advanceAll, Op{Kind: OpAdvance})
	}

	scs := []Scenario{
		{
			Name: "next then submit with empty values",
			Ops:  append(append([]Op{{Kind: OpOpen}}, advanceAll...), Op{Kind: OpSubmit}),
		},
		{
			Name: "retreat clamps at first step",
			Ops:  []Op{{Kind: OpOpen}, {Kind: OpRetreat}, {Kind: OpRetreat}},
		},
		{
			Name: "advance is a no-op on the last step",
			Ops: append(append([]Op{{Kind: OpOpen}}, advanceAll...),
				Op{Kind: OpAdvance}, Op{Kind: OpAdvance}),
		},
		{
			Name: "close discards progress",
			Ops: []Op{
				{Kind: OpOpen},
				Set(def.Steps[0].Fields[0].ID, "partial"),
				{Kind: OpClose},
				{Kind: OpOpen},
			},
		},
	}

	// Valid walk: fill every field with a value its type accepts, then
	// advance through all steps and submit.
	var walk []Op
	walk = append(walk, Op{Kind: OpOpen})
	for i, step := range def.Steps {
		for _, f := range step.Fields {
			walk = append(walk, Set(f.ID, acceptableValue(f.Type)))
		}
		if i < len(def.Steps)-1 {
			walk = append(walk, Op{Kind: OpAdvance})
		}
	}
	walk = append(walk, Op{Kind: OpSubmit})
	scs = append(scs, Scenario{Name: "valid walk to submit", Ops: walk})

	// Typing clears a stale error.
	scs = append(scs, Scenario{
		Name: "input clears recorded error",
		Ops: []Op{
			{Kind: OpOpen},
			{Kind: OpAdvance},
			{Kind: OpRetreat},
			Set(def.Steps[0].Fields[0].ID, acceptableValue(def.Steps[0].Fields[0].Type)),
		},
	})

	// Adversarial inputs: every field sees the literals its type's rules
	// must judge, submitted from that field's own step so validation
	// actually runs in both renditions.
	var hostile []Op
	for si, step := range def.Steps {
		for _, f := range step.Fields {
			for _, v := range adversarialValues(f.Type) {
				hostile = append(hostile, Op{Kind: OpClose}, Op{Kind: OpOpen})
				for i := 0; i < si; i++ {
					hostile = append(hostile, Op{Kind: OpAdvance})
				}
				hostile = append(hostile, Set(f.ID, v), Op{Kind: OpSubmit})
			}
		}
	}
	scs = append(scs, Scenario{Name: "adversarial inputs", Ops: hostile})

	return scs
}

// adversarialValues returns the boundary literals a field type's
// validation rules must classify the same way in both renditions.
func adversarialValues(t definition.FieldType) []string {
	switch t {
	case definition.FieldNumber:
		return []string{
			"abc", "1_000", "0x10", "0b101", "0x1p4",
			"Infinity", "NaN", "   ", "1.2.3",
			"1e3", ".5", "5.", "+7", " 42 ",
		}
	case definition.FieldEmail:
		return []string{"a@b", "no-at", "user@@example.com", " spaced@x.co", "a@b.co"}
	default:
		return []string{"   ", "<script>alert(1)</script>"}
	}
}

// acceptableValue returns a value every validation rule accepts for a
// field type.
func acceptableValue(t definition.FieldType) string {
	switch t {
	case definition.FieldEmail:
		return "lead@example.com"
	case definition.FieldNumber:
		return "42"
	case definition.FieldDate:
		return "2024-06-01"
	case definition.FieldURL:
		return "https://example.com"
	case definition.FieldTel:
		return "+15551234567"
	default:
		return "sample"
	}
}

func export(vm *goja.Runtime) (jsResult, error) {
	var res jsResult
	val, err := vm.RunString("JSON.stringify({ state: state, outcomes: outcomes })")
	if err != nil {
		return res, fmt.Errorf("export js state: %w", err)
	}
	if err := json.Unmarshal([]byte(val.String()), &res); err != nil {
		return res, fmt.Errorf("decode js state: %w", err)
	}
	if res.State.Values == nil {
		res.State.Values = map[string]string{}
	}
	if res.State.Errors == nil {
		res.State.Errors = map[string]string{}
	}
	return res, nil
}

func sameStringMap(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
