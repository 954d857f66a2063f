package domain

import (
	"encoding/json"
	"strings"

	"dialcore/internal/da"
	"dialcore/internal/dst"
)

type DialogueActItem struct {
	Intent     string  `json:"intent"`
	Slot       string  `json:"slot,omitempty"`
	Value      string  `json:"value,omitempty"`
	Confidence float64 `json:"confidence"`
}

type ParseRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type ParseResponse struct {
	DA             string            `json:"da"`
	Items          []DialogueActItem `json:"items"`
	Normalized     []string          `json:"normalized"`
	Abstracted     []string          `json:"abstracted"`
	CategoryLabels []string          `json:"category_labels"`
	Override       bool              `json:"override,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type TurnRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type TurnResponse struct {
	SessionID string            `json:"session_id"`
	Turn      int               `json:"turn"`
	User      string            `json:"user"`
	NLU       string            `json:"nlu"`
	Items     []DialogueActItem `json:"items"`
	State     dst.BeliefState   `json:"state"`
	TS        string            `json:"ts,omitempty"`
}

type StateResponse struct {
	SessionID string          `json:"session_id"`
	Turns     int             `json:"turns"`
	State     dst.BeliefState `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UtterancePayload is the JSON form accepted on the MQTT utterance topic.
type UtterancePayload struct {
	Text string `json:"text"`
}

func ItemsFromAct(act *da.Act) []DialogueActItem {
	items := act.Items()
	out := make([]DialogueActItem, 0, len(items))
	for _, it := range items {
		out = append(out, DialogueActItem{
			Intent:     it.Intent,
			Slot:       it.Slot,
			Value:      it.Value,
			Confidence: it.Confidence,
		})
	}
	return out
}

// UtteranceText reads a transport payload: a JSON object with a text field,
// or plain text.
func UtteranceText(payload []byte) string {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "{") {
		var in UtterancePayload
		if err := json.Unmarshal(payload, &in); err == nil {
			return in.Text
		}
	}
	return trimmed
}
