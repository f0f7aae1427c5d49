package providers

import (
	"context"
	"strings"
)

// Image is an inline image sent alongside a prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Format returns the image subtype, e.g. "jpeg" for "image/jpeg".
func (i Image) Format() string {
	_, sub, ok := strings.Cut(i.MIMEType, "/")
	if !ok || sub == "" {
		return "jpeg"
	}
	return sub
}

// Config represents a single generation request to an LLM provider.
// A zero Temperature leaves the provider default in place.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	Image       *Image
}

// Provider defines the interface for an LLM provider
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}
