package bgremove

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Rembg removes backgrounds through a rembg HTTP server ("rembg s").
type Rembg struct {
	client   *resty.Client
	endpoint string
	model    string
}

// NewRembg returns a Rembg client for the server at baseURL using model,
// e.g. "u2net". A zero timeout leaves requests bounded only by their context.
func NewRembg(baseURL, model string, timeout time.Duration) *Rembg {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Rembg{
		client:   client,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/api/remove",
		model:    model,
	}
}

// Remove uploads data and returns the PNG the server sends back.
func (r *Rembg) Remove(ctx context.Context, data []byte, filename string) ([]byte, error) {
	req := r.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data))
	if r.model != "" {
		req.SetQueryParam("model", r.model)
	}

	resp, err := req.Post(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("rembg request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("rembg returned %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("rembg returned an empty body")
	}

	return resp.Body(), nil
}
