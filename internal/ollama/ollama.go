package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stockpipe/stockpipe/internal/providers"
)

const defaultURL = "http://localhost:11434"

// Ollama is a provider for Ollama
type Ollama struct {
	client   *resty.Client
	endpoint string
}

// New returns a new Ollama provider. An empty baseURL targets a local server.
func New(baseURL string) *Ollama {
	if baseURL == "" {
		baseURL = defaultURL
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(5 * time.Minute)

	return &Ollama{
		client:   client,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/api/generate",
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Images  []string       `json:"images,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// GenerateText runs a non-streaming generation, attaching the image when present
func (o *Ollama) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	req := generateRequest{
		Model:  config.Model,
		Prompt: config.Prompt,
		Stream: false,
	}
	if config.Image != nil {
		req.Images = []string{base64.StdEncoding.EncodeToString(config.Image.Data)}
	}
	if config.Temperature > 0 {
		req.Options = map[string]any{"temperature": config.Temperature}
	}

	var resp generateResponse
	httpResp, err := o.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(o.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if httpResp.IsError() {
		msg := resp.Error
		if msg == "" {
			msg = httpResp.String()
		}
		return "", fmt.Errorf("received non-200 status code: %d - %s", httpResp.StatusCode(), msg)
	}

	return resp.Response, nil
}
