package orchestrator

import (
	"context"
	"time"

	"dialcore/internal/metrics"
)

// RunSessionSweeper drops idle sessions every interval until ctx is done.
func (s *Service) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	if s == nil || s.sessions == nil {
		return
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("session sweeper started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	removed := s.sessions.Sweep()
	metrics.SetActiveSessions(s.sessions.Len())
	if len(removed) == 0 {
		return
	}
	metrics.RecordExpired(len(removed))
	s.logger.Info("sessions expired", "count", len(removed), "session_ids", removed)
}
