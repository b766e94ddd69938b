package server

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wizardformz/formkit/pkg/logging"
	"github.com/wizardformz/formkit/pkg/style"
	"github.com/wizardformz/formkit/pkg/widget"
)

// handlePreview serves the live preview page: the server-rendered
// widget plus a small shell script that forwards interactions over the
// preview channel and swaps in re-rendered markup.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	def, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	wid, err := widget.New(def, widget.WithLogger(s.logger.With(logging.String("form_id", def.ID))))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString(`<meta charset="utf-8">` + "\n")
	page.WriteString(fmt.Sprintf("<title>Preview - %s</title>\n", html.EscapeString(def.Title)))
	page.WriteString(fmt.Sprintf("<style data-form-id=\"%s\">\n%s</style>\n",
		html.EscapeString(def.ID), wid.StyleSheet()))
	page.WriteString("</head>\n<body>\n")
	page.WriteString(fmt.Sprintf("<div id=\"%s\">\n", html.EscapeString(style.ContainerID(def.ID))))
	page.WriteString(wid.HTML())
	page.WriteString("</div>\n")
	page.WriteString(fmt.Sprintf("<script>\n(function() {\nvar formId = %q;\n%s})();\n</script>\n",
		def.ID, previewShell))
	page.WriteString("</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page.String())
}

// previewShell is the client side of the preview channel. It delegates
// events from the server-rendered widget so re-rendered markup needs no
// rebinding, and performs the native submit when the server reports a
// delegated outcome. Field values are committed on change rather than
// per keystroke: every render frame replaces the widget markup, and
// swapping the input element mid-edit would drop the caret.
const previewShell = `var container = document.getElementById('form-widget-' + formId);
var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
var sock = new WebSocket(scheme + location.host + '/forms/' + formId + '/live');

function send(event, payload) {
  sock.send(JSON.stringify({
    type: 0,
    formId: formId,
    event: event,
    payload: payload || {},
    ts: new Date().toISOString()
  }));
}

sock.onmessage = function(e) {
  var msg = JSON.parse(e.data);
  if (msg.type === 1) {
    container.innerHTML = msg.html;
    return;
  }
  if (msg.type === 2) {
    if (msg.outcome === 'delegated') {
      var form = container.querySelector('form');
      if (form) {
        form.submit();
      }
      return;
    }
    if (msg.outcome === 'accepted') {
      console.log('Form submitted:', msg.values);
      alert('Form submitted successfully!');
    }
  }
};

container.addEventListener('click', function(e) {
  var el = e.target.closest('[data-action]');
  if (!el) {
    return;
  }
  var action = el.getAttribute('data-action');
  if (action === 'open' || action === 'close' || action === 'next' || action === 'previous') {
    send(action);
  }
});

container.addEventListener('change', function(e) {
  if (e.target.getAttribute('data-action') === 'input') {
    send('input', { field: e.target.name, value: e.target.value });
  }
});

container.addEventListener('submit', function(e) {
  e.preventDefault();
  send('submit');
});
`
