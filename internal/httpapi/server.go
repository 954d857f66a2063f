// Package httpapi exposes the dialogue service over HTTP and WebSocket.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dialcore/internal/domain"
	"dialcore/internal/orchestrator"
	"dialcore/internal/session"
)

var errBodyTooLarge = errors.New("request body too large")

type Config struct {
	MaxBodyBytes int64
}

type Server struct {
	svc          *orchestrator.Service
	maxBodyBytes int64
	validate     *validator.Validate
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

func NewServer(svc *orchestrator.Service, cfg Config, logger *slog.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 65536
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:          svc,
		maxBodyBytes: cfg.MaxBodyBytes,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/nlu/parse", s.handleParse)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Delete("/", s.handleDelete)
			r.Post("/turns", s.handleTurn)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	return r
}

func (s *Server) handleParse(w http.ResponseWriter, req *http.Request) {
	var in domain.ParseRequest
	if !s.decodeValid(w, req, &in) {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Parse(in.Text))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, s.svc.CreateSession())
}

func (s *Server) handleTurn(w http.ResponseWriter, req *http.Request) {
	var in domain.TurnRequest
	if !s.decodeValid(w, req, &in) {
		return
	}
	resp, err := s.svc.HandleTurn(req.Context(), orchestrator.TurnRequest{
		SessionID: chi.URLParam(req, "sessionID"),
		Text:      in.Text,
		Source:    orchestrator.SourceHTTP,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, req *http.Request) {
	resp, err := s.svc.State(chi.URLParam(req, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, req *http.Request) {
	if err := s.svc.DeleteSession(chi.URLParam(req, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeValid(w http.ResponseWriter, req *http.Request, out any) bool {
	if err := decodeJSONBody(req, s.maxBodyBytes, out); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, domain.ErrorResponse{Error: err.Error()})
		return false
	}
	if err := s.validate.Struct(out); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: validationMessage(err)})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, domain.ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error()})
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func decodeJSONBody(req *http.Request, maxBytes int64, out any) error {
	defer req.Body.Close()
	data, err := io.ReadAll(io.LimitReader(req.Body, maxBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return errBodyTooLarge
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid json: multiple JSON values")
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
