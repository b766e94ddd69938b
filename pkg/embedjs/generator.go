// Package embedjs generates the self-contained widget script embedded
// on third-party pages. The emitted text carries the form definition as
// a literal value and re-implements the navigation/validation engine in
// JavaScript with no external runtime dependency. The engine portion is
// generated from the same message and pattern constants as pkg/engine,
// and pkg/conform executes it to prove the two renditions agree.
package embedjs

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/engine"
	"github.com/wizardformz/formkit/pkg/style"
)

// Generator emits embed code for one resolved definition. Output is
// deterministic: the same definition always produces byte-identical
// text, which the copy-embed-code flow and the tests rely on.
type Generator struct {
	def *definition.FormDefinition
}

// New creates a generator for a definition.
func New(def *definition.FormDefinition) *Generator {
	return &Generator{def: def}
}

// EngineScript returns the DOM-free engine factory as JavaScript. The
// result defines createFormEngine(config) and nothing else, so it can
// run in any JavaScript runtime, browser or not.
func (g *Generator) EngineScript() string {
	return fmt.Sprintf(engineScript, engine.EmailPattern, engine.NumberPattern,
		jsString(engine.MsgRequired), jsString(engine.MsgInvalidEmail), jsString(engine.MsgInvalidNum))
}

// PreviewFragment returns the script body only, for execution inside
// the authoring app's own preview (where the host page provides the
// container element and runs the text through a function scope).
func (g *Generator) PreviewFragment() (string, error) {
	configJSON, err := json.MarshalIndent(g.def, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode definition: %w", err)
	}

	css := style.Sheet(g.def.ID, g.def.Styles)

	var sb strings.Builder
	sb.WriteString("var formConfig = ")
	sb.Write(configJSON)
	sb.WriteString(";\n\nvar formStyles = ")
	sb.WriteString(jsString(css))
	sb.WriteString(";\n\n")
	sb.WriteString(g.EngineScript())
	sb.WriteString("\n")
	sb.WriteString(widgetScript)
	sb.WriteString("\nnew FormWidget(formConfig);\n")
	return sb.String(), nil
}

// FullEmbed returns the complete embed blob: the container element plus
// an IIFE-wrapped script, safe to paste into a third-party page without
// leaking global identifiers.
func (g *Generator) FullEmbed() (string, error) {
	fragment, err := g.PreviewFragment()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<!-- FormKit widget -->\n")
	sb.WriteString(fmt.Sprintf("<div id=\"%s\"></div>\n\n", html.EscapeString(style.ContainerID(g.def.ID))))
	sb.WriteString("<script>\n(function() {\n")
	sb.WriteString(fragment)
	sb.WriteString("})();\n</script>\n")
	return sb.String(), nil
}

// jsString encodes a Go string as a JavaScript string literal. JSON
// encoding keeps the output safe inside <script> blocks because angle
// brackets are escaped.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// engineScript is the JavaScript rendition of pkg/engine. Placeholders:
// email pattern, number pattern, required message, email message,
// number message.
const engineScript = `function createFormEngine(config) {
  var EMAIL_RE = /%s/;
  var NUMBER_RE = /%s/;
  var MSG_REQUIRED = %s;
  var MSG_EMAIL = %s;
  var MSG_NUMBER = %s;

  function newState() {
    return { stepIndex: 0, values: {}, errors: {}, open: false };
  }

  function validateField(field, value) {
    if (field.required && !value) {
      return MSG_REQUIRED;
    }
    if (!value) {
      return '';
    }
    if (field.type === 'email' && !EMAIL_RE.test(value)) {
      return MSG_EMAIL;
    }
    if (field.type === 'number' && !NUMBER_RE.test(value)) {
      return MSG_NUMBER;
    }
    return '';
  }

  function validateStep(step, values) {
    var errors = {};
    for (var i = 0; i < step.fields.length; i++) {
      var field = step.fields[i];
      var message = validateField(field, values[field.id] || '');
      if (message) {
        errors[field.id] = message;
      }
    }
    return errors;
  }

  function advance(state) {
    if (state.stepIndex >= config.steps.length - 1) {
      return state;
    }
    state.errors = validateStep(config.steps[state.stepIndex], state.values);
    state.stepIndex++;
    return state;
  }

  function retreat(state) {
    if (state.stepIndex > 0) {
      state.stepIndex--;
    }
    return state;
  }

  function setValue(state, fieldId, value) {
    state.values[fieldId] = value;
    delete state.errors[fieldId];
    return state;
  }

  function submit(state) {
    var errors = validateStep(config.steps[state.stepIndex], state.values);
    if (Object.keys(errors).length > 0) {
      state.errors = {};
      for (var key in errors) {
        state.errors[key] = errors[key];
      }
      return { kind: 'invalid', errors: errors };
    }
    var values = {};
    for (var key in state.values) {
      values[key] = state.values[key];
    }
    if (config.useNetlify || config.formAction) {
      state.errors = {};
      return { kind: 'delegated', values: values };
    }
    var fresh = newState();
    state.stepIndex = fresh.stepIndex;
    state.values = fresh.values;
    state.errors = fresh.errors;
    state.open = fresh.open;
    return { kind: 'accepted', values: values };
  }

  function open(state) {
    var s = newState();
    s.open = true;
    return s;
  }

  function close(state) {
    return newState();
  }

  return {
    newState: newState,
    validateField: validateField,
    validateStep: validateStep,
    advance: advance,
    retreat: retreat,
    setValue: setValue,
    submit: submit,
    open: open,
    close: close
  };
}`

// widgetScript binds the generated engine to the page. Every widget
// instance keeps references to its own elements instead of querying the
// document, so multiple embedded forms coexist on one host page.
const widgetScript = `class FormWidget {
  constructor(config) {
    this.config = config;
    this.engine = createFormEngine(config);
    this.state = this.engine.newState();
    this.container = document.getElementById('form-widget-' + config.id);
    this.inputs = {};
    this.errorEls = {};
    this.stepEls = [];
    this.progressEls = [];
    this.injectStyles();
    this.mount();
  }

  injectStyles() {
    if (document.querySelector('style[data-form-id="' + this.config.id + '"]')) {
      return;
    }
    var styleSheet = document.createElement('style');
    styleSheet.setAttribute('data-form-id', this.config.id);
    styleSheet.textContent = formStyles;
    document.head.appendChild(styleSheet);
  }

  mount() {
    var self = this;

    this.trigger = document.createElement('button');
    this.trigger.className = 'msf-button';
    this.trigger.textContent = this.config.styles.buttons.openText || ('Open ' + this.config.title);
    this.trigger.onclick = function() { self.open(); };
    this.container.appendChild(this.trigger);

    this.modal = document.createElement('div');
    this.modal.className = 'msf-modal-overlay';

    var content = document.createElement('div');
    content.className = 'msf-modal-content';

    var closeBtn = document.createElement('button');
    closeBtn.className = 'msf-close';
    closeBtn.type = 'button';
    closeBtn.textContent = '×';
    closeBtn.onclick = function() { self.close(); };
    content.appendChild(closeBtn);

    var header = document.createElement('div');
    header.className = 'msf-header';
    var title = document.createElement('h2');
    title.className = 'msf-form-title';
    title.textContent = this.config.title;
    header.appendChild(title);
    content.appendChild(header);

    var progress = document.createElement('div');
    progress.className = 'msf-progress';
    for (var i = 0; i < this.config.steps.length; i++) {
      var seg = document.createElement('div');
      seg.className = 'msf-progress-step';
      progress.appendChild(seg);
      this.progressEls.push(seg);
    }
    content.appendChild(progress);

    this.formEl = document.createElement('form');
    this.formEl.method = 'POST';
    this.formEl.onsubmit = function(e) { self.handleSubmit(e); };
    if (this.config.useNetlify) {
      this.formEl.setAttribute('data-netlify', 'true');
      var hidden = document.createElement('input');
      hidden.type = 'hidden';
      hidden.name = 'form-name';
      hidden.value = this.config.title;
      this.formEl.appendChild(hidden);
    }
    if (this.config.formAction) {
      this.formEl.action = this.config.formAction;
    }

    for (var s = 0; s < this.config.steps.length; s++) {
      this.formEl.appendChild(this.buildStep(this.config.steps[s], s));
    }

    var buttons = document.createElement('div');
    buttons.className = 'msf-buttons';

    this.prevBtn = document.createElement('button');
    this.prevBtn.type = 'button';
    this.prevBtn.className = 'msf-button';
    this.prevBtn.textContent = this.config.styles.buttons.previousText || 'Previous';
    this.prevBtn.onclick = function() { self.previous(); };
    buttons.appendChild(this.prevBtn);

    this.nextBtn = document.createElement('button');
    this.nextBtn.type = 'button';
    this.nextBtn.className = 'msf-button';
    this.nextBtn.textContent = this.config.styles.buttons.nextText || 'Next';
    this.nextBtn.onclick = function() { self.next(); };
    buttons.appendChild(this.nextBtn);

    this.submitBtn = document.createElement('button');
    this.submitBtn.type = 'submit';
    this.submitBtn.className = 'msf-button';
    this.submitBtn.textContent = this.config.styles.buttons.submitText || 'Submit';
    buttons.appendChild(this.submitBtn);

    this.formEl.appendChild(buttons);
    content.appendChild(this.formEl);
    this.modal.appendChild(content);
    this.container.appendChild(this.modal);
    this.sync();
  }

  buildStep(step, index) {
    var stepDiv = document.createElement('div');
    stepDiv.setAttribute('data-step', index);
    this.stepEls.push(stepDiv);

    var stepTitle = document.createElement('h3');
    stepTitle.className = 'msf-step-title';
    stepTitle.textContent = step.title;
    stepDiv.appendChild(stepTitle);

    for (var i = 0; i < step.fields.length; i++) {
      stepDiv.appendChild(this.buildField(step.fields[i]));
    }
    return stepDiv;
  }

  buildField(field) {
    var self = this;
    var fieldDiv = document.createElement('div');
    fieldDiv.className = 'msf-field';

    var label = document.createElement('label');
    label.className = 'msf-label';
    label.textContent = field.label;
    if (field.required) {
      var star = document.createElement('span');
      star.style.color = this.config.styles.colors.error;
      star.textContent = ' *';
      label.appendChild(star);
    }
    fieldDiv.appendChild(label);

    var input = field.type === 'textarea'
      ? document.createElement('textarea')
      : document.createElement('input');
    input.className = 'msf-input';
    if (field.type !== 'textarea') {
      input.type = field.type;
    }
    input.name = field.id;
    input.oninput = function(e) { self.input(field.id, e.target.value); };
    fieldDiv.appendChild(input);
    this.inputs[field.id] = input;

    var error = document.createElement('div');
    error.className = 'msf-error';
    fieldDiv.appendChild(error);
    this.errorEls[field.id] = error;

    return fieldDiv;
  }

  open() {
    this.state = this.engine.open(this.state);
    this.sync();
  }

  close() {
    this.state = this.engine.close(this.state);
    this.formEl.reset();
    this.sync();
  }

  input(fieldId, value) {
    this.state = this.engine.setValue(this.state, fieldId, value);
    this.sync();
  }

  next() {
    this.state = this.engine.advance(this.state);
    this.sync();
  }

  previous() {
    this.state = this.engine.retreat(this.state);
    this.sync();
  }

  handleSubmit(e) {
    e.preventDefault();
    var outcome = this.engine.submit(this.state);
    if (outcome.kind === 'invalid') {
      this.sync();
      return;
    }
    if (outcome.kind === 'delegated') {
      e.target.submit();
      return;
    }
    console.log('Form submitted:', outcome.values);
    alert('Form submitted successfully!');
    this.formEl.reset();
    this.sync();
  }

  sync() {
    var state = this.state;
    this.modal.classList.toggle('active', state.open);

    for (var i = 0; i < this.progressEls.length; i++) {
      this.progressEls[i].classList.toggle('active', i <= state.stepIndex);
    }
    for (var s = 0; s < this.stepEls.length; s++) {
      this.stepEls[s].classList.toggle('active', s === state.stepIndex);
    }

    var last = this.config.steps.length - 1;
    this.prevBtn.style.display = state.stepIndex === 0 ? 'none' : 'block';
    this.nextBtn.style.display = state.stepIndex === last ? 'none' : 'block';
    this.submitBtn.style.display = state.stepIndex === last ? 'block' : 'none';

    for (var fieldId in this.errorEls) {
      var message = state.errors[fieldId] || '';
      this.errorEls[fieldId].textContent = message;
      this.errorEls[fieldId].classList.toggle('active', !!message);
      this.inputs[fieldId].classList.toggle('error', !!message);
    }
  }
}`
