package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stockpipe/stockpipe/internal/providers"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAI is a provider for OpenAI-compatible chat completion APIs
type OpenAI struct {
	client   *resty.Client
	endpoint string
}

// New returns a new OpenAI provider. An empty baseURL targets api.openai.com.
func New(apiKey, baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(120 * time.Second)

	return &OpenAI{
		client:   client,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/chat/completions",
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string, or []any when an image is attached
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageContent struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateText sends the prompt, and the image when present, as a single user message
func (o *OpenAI) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	msg := chatMessage{Role: "user", Content: config.Prompt}
	if config.Image != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s", config.Image.MIMEType, base64.StdEncoding.EncodeToString(config.Image.Data))
		msg.Content = []any{
			textContent{Type: "text", Text: config.Prompt},
			imageContent{Type: "image_url", ImageURL: imageURL{URL: dataURL}},
		}
	}

	req := chatRequest{
		Model:       config.Model,
		Messages:    []chatMessage{msg},
		Temperature: config.Temperature,
	}

	var resp chatResponse
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
		if resp.Error != nil {
			return "", fmt.Errorf("received non-200 status code: %d - %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("received non-200 status code: %d - %s", httpResp.StatusCode(), httpResp.String())
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
