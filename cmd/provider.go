package cmd

import (
	"fmt"

	"github.com/stockpipe/stockpipe/internal/config"
	"github.com/stockpipe/stockpipe/internal/gemini"
	"github.com/stockpipe/stockpipe/internal/ollama"
	"github.com/stockpipe/stockpipe/internal/openai"
	"github.com/stockpipe/stockpipe/internal/providers"
)

// newProvider returns the model provider named in cfg, failing with
// config.ErrMissingAPIKey before any work is done when no key is set.
func newProvider(cfg *config.Config) (providers.Provider, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "gemini":
		return gemini.New(cfg.APIKey), nil
	case "openai":
		return openai.New(cfg.APIKey, cfg.BaseURL), nil
	case "ollama":
		return ollama.New(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
