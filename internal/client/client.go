// Package client talks to a running dialogue server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dialcore/internal/domain"
)

var ErrNotConfigured = errors.New("dialogue server url is not configured")

// StatusError is a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dialogue server status=%d body=%s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) Parse(ctx context.Context, text string) (domain.ParseResponse, error) {
	var out domain.ParseResponse
	err := c.do(ctx, http.MethodPost, "/v1/nlu/parse", domain.ParseRequest{Text: text}, &out)
	return out, err
}

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out domain.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", nil, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

func (c *Client) Turn(ctx context.Context, sessionID, text string) (domain.TurnResponse, error) {
	var out domain.TurnResponse
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(sessionID)+"/turns", domain.TurnRequest{Text: text}, &out)
	return out, err
}

func (c *Client) State(ctx context.Context, sessionID string) (domain.StateResponse, error) {
	var out domain.StateResponse
	err := c.do(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(sessionID)+"/state", nil, &out)
	return out, err
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(sessionID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
