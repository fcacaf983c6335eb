package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"fretnote/debug"
	"fretnote/fretboard"
	"fretnote/trainer"
)

// Server exposes training sessions over HTTP
type Server struct {
	registry *Registry
	defaults trainer.Config
	layout   fretboard.Layout
	handler  http.Handler
}

// New builds the router. origins lists allowed CORS origins ("*" for any);
// defaults is used when a session is created without a body.
func New(defaults trainer.Config, origins []string, opts ...trainer.Option) *Server {
	s := &Server{
		registry: NewRegistry(opts...),
		defaults: defaults,
		layout:   fretboard.Standard,
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/sessions", s.handleCreate).Methods("POST")
	router.HandleFunc("/sessions/{id}", s.handleGet).Methods("GET")
	router.HandleFunc("/sessions/{id}", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/sessions/{id}/answers", s.handleAnswer).Methods("POST")
	router.HandleFunc("/sessions/{id}/config", s.handleConfig).Methods("PUT")
	router.HandleFunc("/sessions/{id}/next", s.handleNext).Methods("POST")
	router.HandleFunc("/display", s.handleDisplay).Methods("GET")

	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		debug.Log("server", "listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	cfg := s.defaults
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, m, err := s.registry.Create(cfg)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	debug.Log("server", "session %s created %+v", id, cfg)
	writeJSON(w, http.StatusCreated, sessionResponse(id, m))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, m))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.registry.Delete(id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	debug.Log("server", "session %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, ok := req.candidate()
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("answer needs string and fret, or pitch"))
		return
	}
	out, err := m.Submit(c)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, AnswerResponse{Outcome: out, Session: sessionResponse(id, m)})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	id, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	cfg := m.Config()
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := m.ApplyConfig(cfg); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, m))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id, m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	m.NextRound()
	writeJSON(w, http.StatusOK, sessionResponse(id, m))
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	str, err1 := strconv.Atoi(q.Get("string"))
	fret, err2 := strconv.Atoi(q.Get("fret"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, errors.New("string and fret must be integers"))
		return
	}
	info, err := trainer.Describe(s.layout, trainer.Coordinate{String: str, Fret: fret})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *trainer.Manager, bool) {
	id := mux.Vars(r)["id"]
	m, err := s.registry.Get(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return "", nil, false
	}
	return id, m, true
}

func sessionResponse(id string, m *trainer.Manager) SessionResponse {
	snap := m.Snapshot()
	return SessionResponse{
		ID:        id,
		Config:    m.Config(),
		Snapshot:  snap,
		Completed: snap.Completed,
		Layout:    trainer.Project(snap.Round),
	}
}

// decodeBody reads JSON into v; an empty body leaves v untouched
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, trainer.ErrInvalidRange),
		errors.Is(err, trainer.ErrInvalidMode),
		errors.Is(err, fretboard.ErrInvalidCoordinate):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Log("server", "encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
