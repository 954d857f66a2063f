package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"dialcore/internal/domain"
	"dialcore/internal/orchestrator"
)

type HubConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	TurnTimeout time.Duration
}

// TurnService is the part of the orchestrator the hub drives.
type TurnService interface {
	HandleTurn(ctx context.Context, req orchestrator.TurnRequest) (domain.TurnResponse, error)
	Parse(text string) domain.ParseResponse
	DeleteSession(sessionID string) error
}

type Hub struct {
	cfg     HubConfig
	client  paho.Client
	service TurnService
	logger  *slog.Logger

	ctx     context.Context
	publish func(topic string, body []byte) error
}

func NewHub(cfg HubConfig, service TurnService, logger *slog.Logger) *Hub {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 5 * time.Second
	}
	return &Hub{
		cfg:     cfg,
		service: service,
		logger:  logger,
		ctx:     context.Background(),
	}
}

func (h *Hub) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.cfg.BrokerURL).
		SetClientID(h.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if h.cfg.Username != "" {
		opts.SetUsername(h.cfg.Username)
		opts.SetPassword(h.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		h.logger.Error("mqtt connection lost", "error", err)
	})

	h.client = paho.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	h.ctx = ctx
	h.publish = h.pahoPublish

	if err := h.subscribeHandlers(); err != nil {
		return err
	}
	h.logger.Info("mqtt hub started", "broker", h.cfg.BrokerURL, "topic_prefix", h.cfg.TopicPrefix)

	go func() {
		<-ctx.Done()
		h.client.Disconnect(100)
	}()

	return nil
}

func (h *Hub) subscribeHandlers() error {
	if token := h.client.Subscribe(TopicSessionUtterances(h.cfg.TopicPrefix), 1, h.handleUtterance); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicSessionResets(h.cfg.TopicPrefix), 1, h.handleReset); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicParseRequests(h.cfg.TopicPrefix), 1, h.handleParseRequest); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (h *Hub) pahoPublish(topic string, body []byte) error {
	if token := h.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (h *Hub) handleUtterance(_ paho.Client, msg paho.Message) {
	h.onUtterance(msg.Topic(), msg.Payload())
}

func (h *Hub) handleReset(_ paho.Client, msg paho.Message) {
	h.onReset(msg.Topic())
}

func (h *Hub) handleParseRequest(_ paho.Client, msg paho.Message) {
	h.onParseRequest(msg.Topic(), msg.Payload())
}

func (h *Hub) onUtterance(topic string, payload []byte) {
	sessionID, err := ParseSessionID(topic, h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid utterance topic", "topic", topic, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.cfg.TurnTimeout)
	defer cancel()
	resp, err := h.service.HandleTurn(ctx, orchestrator.TurnRequest{
		SessionID:     sessionID,
		Text:          domain.UtteranceText(payload),
		Source:        orchestrator.SourceMQTT,
		CreateMissing: true,
	})
	if err != nil {
		h.logger.Warn("mqtt turn failed", "session_id", sessionID, "error", err)
		h.publishJSON(TopicError(h.cfg.TopicPrefix, sessionID), domain.ErrorResponse{Error: err.Error()})
		return
	}
	resp.TS = time.Now().UTC().Format(time.RFC3339Nano)
	h.publishJSON(TopicTurn(h.cfg.TopicPrefix, sessionID), resp)
}

func (h *Hub) onReset(topic string) {
	sessionID, err := ParseSessionID(topic, h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid reset topic", "topic", topic, "error", err)
		return
	}
	if err := h.service.DeleteSession(sessionID); err != nil {
		h.logger.Info("reset of unknown session", "session_id", sessionID)
	}
}

func (h *Hub) onParseRequest(topic string, payload []byte) {
	requestID := ParseRequestID(topic)
	if requestID == "" || requestID == "+" {
		return
	}
	h.publishJSON(TopicParseResult(h.cfg.TopicPrefix, requestID), h.service.Parse(domain.UtteranceText(payload)))
}

func (h *Hub) publishJSON(topic string, body any) {
	if h.publish == nil {
		return
	}
	data, err := json.Marshal(body)
	if err != nil {
		h.logger.Warn("marshal mqtt payload failed", "topic", topic, "error", err)
		return
	}
	if err := h.publish(topic, data); err != nil {
		h.logger.Warn("publish failed", "topic", topic, "error", fmt.Errorf("mqtt publish: %w", err))
	}
}
