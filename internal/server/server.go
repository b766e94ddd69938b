// Package server implements the builder preview server: definition
// CRUD for the authoring app, embed code endpoints, and a live preview
// channel that hosts one interactive widget per connection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wizardformz/formkit/internal/store"
	"github.com/wizardformz/formkit/pkg/definition"
	"github.com/wizardformz/formkit/pkg/embedjs"
	"github.com/wizardformz/formkit/pkg/logging"
)

// Server is the builder preview server.
type Server struct {
	store  *store.Store
	logger logging.Logger
	router *mux.Router
}

// New creates a server over a definition store.
func New(st *store.Store, logger logging.Logger) *Server {
	s := &Server{
		store:  st,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/forms", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/forms", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/forms/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/forms/{id}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/api/forms/{id}", s.handleDelete).Methods(http.MethodDelete)

	r.HandleFunc("/forms/{id}/embed", s.handleEmbed).Methods(http.MethodGet)
	r.HandleFunc("/forms/{id}/fragment", s.handleFragment).Methods(http.MethodGet)
	r.HandleFunc("/forms/{id}/preview", s.handlePreview).Methods(http.MethodGet)
	r.HandleFunc("/forms/{id}/live", s.handleLive).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("preview server listening", logging.String("addr", addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var def definition.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("decode definition: %w", err))
		return
	}
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if err := s.store.Put(r.Context(), &def); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Info("form created", logging.String("form_id", def.ID))
	s.respondJSON(w, http.StatusCreated, &def)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	def, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, def)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.respondStoreError(w, err)
		return
	}

	var def definition.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("decode definition: %w", err))
		return
	}
	// The id in the path wins; definitions keep their id across edits.
	def.ID = id
	if err := s.store.Put(r.Context(), &def); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	s.respondJSON(w, http.StatusOK, &def)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	def, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	out, err := embedjs.New(def).FullEmbed()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	def, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	out, err := embedjs.New(def).PreviewFragment()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	fmt.Fprint(w, out)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", logging.Err(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", logging.Int("status", status), logging.Err(err))
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err)
		return
	}
	s.respondError(w, http.StatusInternalServerError, err)
}
