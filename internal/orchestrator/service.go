package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dialcore/internal/dialogue"
	"dialcore/internal/domain"
	"dialcore/internal/metrics"
	"dialcore/internal/nlu"
	"dialcore/internal/pipeline"
	"dialcore/internal/session"
)

const (
	SourceHTTP      = "http"
	SourceWebSocket = "ws"
	SourceMQTT      = "mqtt"
	SourceCLI       = "cli"
)

type Service struct {
	pipeline *pipeline.Pipeline
	parser   *nlu.Parser
	sessions *session.Registry
	logger   *slog.Logger
}

func New(p *pipeline.Pipeline, parser *nlu.Parser, sessions *session.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pipeline: p,
		parser:   parser,
		sessions: sessions,
		logger:   logger,
	}
}

// TurnRequest is one user utterance addressed to a session. Transports that
// choose their own session ids set CreateMissing.
type TurnRequest struct {
	SessionID     string
	Text          string
	Source        string
	CreateMissing bool
}

// Parse runs the rule parser alone, outside of any session.
func (s *Service) Parse(text string) domain.ParseResponse {
	start := time.Now()
	res := s.parser.Parse(text)
	metrics.ObserveParse(time.Since(start), intents(res))

	return domain.ParseResponse{
		DA:             res.Act.String(),
		Items:          domain.ItemsFromAct(res.Act),
		Normalized:     nonNil(res.Normalized),
		Abstracted:     nonNil(res.Abstracted),
		CategoryLabels: nonNil(res.Labels),
		Override:       res.Override,
	}
}

func (s *Service) CreateSession() domain.CreateSessionResponse {
	sess := s.sessions.Create()
	metrics.SetActiveSessions(s.sessions.Len())
	s.logger.Info("session created", "session_id", sess.ID)
	return domain.CreateSessionResponse{SessionID: sess.ID}
}

func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (domain.TurnResponse, error) {
	resp, err := s.handleTurn(ctx, req)
	metrics.RecordTurn(req.Source, err)
	return resp, err
}

func (s *Service) handleTurn(ctx context.Context, req TurnRequest) (domain.TurnResponse, error) {
	// blank input reaches the parser and comes back as silence()
	text := strings.TrimSpace(req.Text)

	var sess *session.Session
	if req.CreateMissing {
		sess = s.sessions.GetOrCreate(req.SessionID)
		metrics.SetActiveSessions(s.sessions.Len())
	} else {
		found, err := s.sessions.Get(req.SessionID)
		if err != nil {
			return domain.TurnResponse{}, err
		}
		sess = found
	}

	turnStart := time.Now()
	var resp domain.TurnResponse
	err := sess.WithDialogue(func(d *dialogue.Dialogue) error {
		if err := s.pipeline.Run(ctx, d, text); err != nil {
			return err
		}
		resp = domain.TurnResponse{
			SessionID: sess.ID,
			Turn:      d.TurnCount() + 1,
			User:      d.User,
			NLU:       d.NLU.String(),
			Items:     domain.ItemsFromAct(d.NLU),
			State:     d.Snapshot(),
		}
		d.EndTurn()
		return nil
	})
	turnDur := time.Since(turnStart)
	if err != nil {
		s.logger.Warn("turn failed", "session_id", sess.ID, "source", req.Source, "error", err)
		return domain.TurnResponse{}, fmt.Errorf("run pipeline: %w", err)
	}
	metrics.ObserveTurn(turnDur, itemIntents(resp.Items))

	s.logger.Info("turn timing",
		"session_id", sess.ID,
		"source", req.Source,
		"turn", resp.Turn,
		"da", resp.NLU,
		"turn_ms", turnDur.Milliseconds(),
	)
	return resp, nil
}

func (s *Service) State(sessionID string) (domain.StateResponse, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.StateResponse{}, err
	}
	var resp domain.StateResponse
	_ = sess.WithDialogue(func(d *dialogue.Dialogue) error {
		resp = domain.StateResponse{
			SessionID: sess.ID,
			Turns:     d.TurnCount(),
			State:     d.Snapshot(),
		}
		return nil
	})
	return resp, nil
}

func (s *Service) DeleteSession(sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	metrics.SetActiveSessions(s.sessions.Len())
	s.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

func intents(res nlu.Result) []string {
	items := res.Act.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Intent)
	}
	return out
}

func itemIntents(items []domain.DialogueActItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Intent)
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
