package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/wizardformz/formkit/internal/store"
	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/logging"
	"github.com/wizardformz/formkit/pkg/protocol"
	"github.com/wizardformz/formkit/pkg/widget"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, logging.Nop()), st
}

func seedForm(t *testing.T, st *store.Store) *definition.FormDefinition {
	t.Helper()
	def := definition.NewBuilder("Lead Capture").ID("lead").
		Step("About you").Text("Name", true).
		Step("Contact").Email("Email", true).
		MustBuild()
	if err := st.Put(context.Background(), def); err != nil {
		t.Fatalf("seed form: %v", err)
	}
	return def
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestFormCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	def := definition.NewBuilder("Contact").
		Step("Only").Text("Name", true).
		MustBuild()
	body, _ := def.Encode()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forms", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/"+def.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got definition.FormDefinition
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Contact" {
		t.Errorf("title = %q", got.Title)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms", nil))
	var list []store.Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d", len(list))
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/forms/"+def.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/"+def.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreate_RejectsMalformed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/forms",
		strings.NewReader(`{"title": "No Steps"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdate_KeepsPathID(t *testing.T) {
	srv, st := newTestServer(t)
	def := seedForm(t, st)

	edited := *def
	edited.ID = "something-else"
	edited.Title = "Edited"
	body, _ := json.Marshal(&edited)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/forms/"+def.ID, bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}

	got, err := st.Get(context.Background(), def.ID)
	if err != nil {
		t.Fatalf("stored form gone: %v", err)
	}
	if got.Title != "Edited" {
		t.Errorf("title = %q, want Edited", got.Title)
	}
}

func TestEmbedEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	def := seedForm(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/"+def.ID+"/embed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<div id="form-widget-lead"></div>`) {
		t.Error("embed missing container element")
	}
	if !strings.Contains(body, "createFormEngine") {
		t.Error("embed missing engine script")
	}

	rec2 := httptest.NewRecorder()
	srv.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/forms/"+def.ID+"/embed", nil))
	if body != rec2.Body.String() {
		t.Error("embed endpoint is not deterministic")
	}
}

func TestFragmentEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	def := seedForm(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/"+def.ID+"/fragment", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Error("fragment must not contain host markup")
	}
}

func TestPreviewPage(t *testing.T) {
	srv, st := newTestServer(t)
	def := seedForm(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/"+def.ID+"/preview", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<style data-form-id="lead">`,
		`<div id="form-widget-lead">`,
		`data-action="open"`,
		"/forms/' + formId + '/live",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("preview page missing %q", want)
		}
	}
}

func TestPreviewPage_EscapesFormID(t *testing.T) {
	srv, st := newTestServer(t)
	def := definition.NewBuilder("T").ID(`x" onload="alert(1)`).
		Step("S").Text("Name", false).
		MustBuild()
	if err := st.Put(context.Background(), def); err != nil {
		t.Fatalf("seed form: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/forms/"+url.PathEscape(def.ID)+"/preview", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, `id="form-widget-x" onload=`) ||
		strings.Contains(body, `data-form-id="x" onload=`) {
		t.Error("form id broke out of an attribute")
	}
	if !strings.Contains(body, `data-form-id="x&#34; onload=&#34;alert(1)"`) {
		t.Error("form id not attribute-escaped in the style tag")
	}
}

func TestLiveChannel(t *testing.T) {
	srv, st := newTestServer(t)
	def := seedForm(t, st)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/forms/" + def.ID + "/live"
	conn, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{subprotocolJSON},
	})
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	codec := protocol.NewJSONCodec()

	send := func(event string, payload map[string]any) {
		t.Helper()
		data, err := codec.Encode(protocol.NewEvent(def.ID, event, payload))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	read := func() *protocol.Message {
		t.Helper()
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		msg, err := codec.Decode(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	}

	send(widget.EventOpen, nil)
	msg := read()
	if msg.Type != protocol.MsgRender {
		t.Fatalf("frame type = %v, want render", msg.Type)
	}
	if !strings.Contains(msg.HTML, "msf-modal-overlay active") {
		t.Error("render frame does not show the open modal")
	}

	send(widget.EventNext, nil)
	msg = read()
	if !strings.Contains(msg.HTML, `<div data-step="1" class="active">`) {
		t.Error("widget did not advance to step 1")
	}

	send(widget.EventSubmit, nil)
	render := read()
	if render.Type != protocol.MsgRender {
		t.Fatalf("expected render frame after submit, got %v", render.Type)
	}
	outcome := read()
	if outcome.Type != protocol.MsgOutcome || outcome.Outcome != "invalid" {
		t.Errorf("expected invalid outcome frame, got %+v", outcome)
	}
}
