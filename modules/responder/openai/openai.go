// Package openai provides a reply backend for any API that implements the
// OpenAI chat completions interface (OpenAI, Mistral, Groq, vLLM, LiteLLM,
// etc.) via a configurable base_url.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/megachat/megachat/internal/responder"
)

// systemPrompt frames every completion request.
const systemPrompt = "You are a helpful, witty, and concise AI assistant " +
	"in a social chat application called 'Mega Chat'. " +
	"Keep responses relatively short and conversational."

// Compile-time interface guard.
var _ responder.Responder = (*Client)(nil)

// Client is an OpenAI-compatible reply backend.
type Client struct {
	config Config
	client *http.Client
}

// New creates a client from the given configuration. The configuration is
// validated and defaulted.
func New(cfg Config) (*Client, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: cfg,
		// Use a transport with response-header timeout instead of a global
		// client timeout; per-request context handles cancellation.
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
	}, nil
}

// Reply implements responder.Responder.
func (c *Client) Reply(ctx context.Context, req responder.Request) (string, error) {
	resp, err := c.doRequest(ctx, buildRequest(c.config, req))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return "", handleErrorResponse(resp)
	}

	var oaiResp oaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oaiResp); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	if len(oaiResp.Choices) == 0 || oaiResp.Choices[0].Message.Content == "" {
		return "", responder.ErrEmptyReply
	}
	return oaiResp.Choices[0].Message.Content, nil
}
