package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"dialcore/internal/domain"
	"dialcore/internal/orchestrator"
)

type wsEvent struct {
	Type    string                `json:"type"`
	Message string                `json:"message,omitempty"`
	Turn    *domain.TurnResponse  `json:"turn,omitempty"`
	State   *domain.StateResponse `json:"state,omitempty"`
}

// handleWebSocket runs one turn per text frame. A frame is either plain text
// or {"text": "..."}.
func (s *Server) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	sessionID := chi.URLParam(req, "sessionID")
	state, err := s.svc.State(sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ws, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Warn("upgrade websocket failed", "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(s.maxBodyBytes)

	_ = ws.WriteJSON(wsEvent{Type: "ready", State: &state})

	ctx := req.Context()
	for {
		msgType, payload, err := ws.ReadMessage()
		if err != nil {
			s.logger.Info("dialogue websocket closed", "session_id", sessionID)
			return
		}
		if msgType != websocket.TextMessage {
			_ = ws.WriteJSON(wsEvent{Type: "error", Message: "only text frames are supported"})
			continue
		}

		resp, err := s.svc.HandleTurn(ctx, orchestrator.TurnRequest{
			SessionID: sessionID,
			Text:      domain.UtteranceText(payload),
			Source:    orchestrator.SourceWebSocket,
		})
		if err != nil {
			_ = ws.WriteJSON(wsEvent{Type: "error", Message: err.Error()})
			continue
		}
		if err := ws.WriteJSON(wsEvent{Type: "turn", Turn: &resp}); err != nil {
			s.logger.Warn("write websocket turn failed", "session_id", sessionID, "error", err)
			return
		}
	}
}
