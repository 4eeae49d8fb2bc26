// Package aigw talks to the hosted AI backend. The backend owns the provider
// credentials; this client only knows the two proxy endpoints and returns
// ErrAIUnavailable for anything other than a well-formed success, so callers
// can show their fallback copy.
package aigw

import (
	"context"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/canevoj/standarium/internal/metrics"
)

// ErrAIUnavailable is returned for transport failures, non-2xx responses and
// malformed bodies alike.
var ErrAIUnavailable = errors.New("serviço de IA indisponível")

// ChatMessage is one turn of a chat history, Gemini-style: a role plus text
// parts.
type ChatMessage struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// Client calls the hosted AI backend.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient builds a client for the backend at baseURL. A non-positive
// timeout falls back to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

type textRequest struct {
	Prompt string `json:"prompt"`
}

type chatRequest struct {
	History []ChatMessage `json:"history"`
}

type textResponse struct {
	Text string `json:"text"`
}

// GenerateText sends a single prompt and returns the generated text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.post(ctx, "generate-text", "/api/generate-text", textRequest{Prompt: prompt})
}

// GenerateChat sends a chat history and returns the model's next turn.
func (c *Client) GenerateChat(ctx context.Context, history []ChatMessage) (string, error) {
	return c.post(ctx, "generate-chat", "/api/generate-chat", chatRequest{History: history})
}

func (c *Client) post(ctx context.Context, op, path string, body interface{}) (string, error) {
	var (
		rsp  textResponse
		code int
	)
	err := gout.POST(c.baseURL + path).
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetJSON(body).
		BindJSON(&rsp).
		Code(&code).
		Do()
	if err != nil {
		zap.L().Error("ai backend request failed",
			zap.String("op", op), zap.Error(err))
		metrics.AIRequests.WithLabelValues(op, "error").Inc()
		return "", ErrAIUnavailable
	}
	if code < 200 || code >= 300 || rsp.Text == "" {
		zap.L().Error("ai backend bad response",
			zap.String("op", op), zap.Int("status", code))
		metrics.AIRequests.WithLabelValues(op, "error").Inc()
		return "", ErrAIUnavailable
	}
	metrics.AIRequests.WithLabelValues(op, "ok").Inc()
	return rsp.Text, nil
}
