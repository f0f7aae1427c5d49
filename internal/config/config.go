package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when a model-calling command runs without API_KEY.
var ErrMissingAPIKey = errors.New("API_KEY environment variable not set")

// Config holds the settings shared by every stockpipe command.
type Config struct {
	APIKey      string `mapstructure:"api_key"`
	Provider    string `mapstructure:"provider"`
	VisionModel string `mapstructure:"vision_model"`
	TextModel   string `mapstructure:"text_model"`
	BaseURL     string `mapstructure:"base_url"`

	Generate GenerateConfig `mapstructure:"generate"`
	Rembg    RembgConfig    `mapstructure:"rembg"`
	Browser  BrowserConfig  `mapstructure:"browser"`
}

type GenerateConfig struct {
	Workers      int `mapstructure:"workers"`
	MaxDimension int `mapstructure:"max_dimension"`
}

type RembgConfig struct {
	URL     string        `mapstructure:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type BrowserConfig struct {
	URL             string        `mapstructure:"url"`
	ProfileRoot     string        `mapstructure:"profile_root"`
	PromptSelector  string        `mapstructure:"prompt_selector"`
	WaitTimeout     time.Duration `mapstructure:"wait_timeout"`
	MinTypeDelay    time.Duration `mapstructure:"min_type_delay"`
	MaxTypeDelay    time.Duration `mapstructure:"max_type_delay"`
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
}

// Load reads .env, an optional YAML config file and the environment.
// An empty configPath searches ./stockpipe.yaml and ./configs/stockpipe.yaml.
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("stockpipe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	_ = v.BindEnv("api_key", "API_KEY")
	_ = v.BindEnv("provider", "STOCKPIPE_PROVIDER")
	_ = v.BindEnv("base_url", "STOCKPIPE_BASE_URL")
	_ = v.BindEnv("rembg.url", "REMBG_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "gemini")
	v.SetDefault("vision_model", "gemini-1.5-flash")
	v.SetDefault("text_model", "gemini-1.5-pro")
	v.SetDefault("base_url", "")
	v.SetDefault("generate.workers", 5)
	v.SetDefault("generate.max_dimension", 800)
	v.SetDefault("rembg.url", "http://localhost:7000")
	v.SetDefault("rembg.model", "u2net")
	v.SetDefault("rembg.timeout", 2*time.Minute)
	v.SetDefault("browser.url", "https://app.leonardo.ai/image-generation")
	v.SetDefault("browser.profile_root", DefaultProfileRoot())
	v.SetDefault("browser.prompt_selector", "#prompt-input")
	v.SetDefault("browser.wait_timeout", 10*time.Second)
	v.SetDefault("browser.min_type_delay", 50*time.Millisecond)
	v.SetDefault("browser.max_type_delay", 200*time.Millisecond)
	v.SetDefault("browser.processing_delay", 15*time.Second)
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Generate.Workers < 1 {
		return fmt.Errorf("generate.workers must be positive, got %d", c.Generate.Workers)
	}
	if c.Generate.MaxDimension < 1 {
		return fmt.Errorf("generate.max_dimension must be positive, got %d", c.Generate.MaxDimension)
	}
	if c.Browser.MinTypeDelay < 0 || c.Browser.MaxTypeDelay < c.Browser.MinTypeDelay {
		return fmt.Errorf("invalid typing delay range [%s, %s]", c.Browser.MinTypeDelay, c.Browser.MaxTypeDelay)
	}
	switch c.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey unless an API key is configured.
// Ollama runs locally and needs no key.
func (c *Config) RequireAPIKey() error {
	if c.Provider == "ollama" {
		return nil
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// DefaultProfileRoot returns Chrome's user data directory for the current OS.
func DefaultProfileRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Google", "Chrome", "User Data")
		}
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome")
	default:
		return filepath.Join(home, ".config", "google-chrome")
	}
}

// ProfileDir returns the directory of Chrome profile number n.
func (b BrowserConfig) ProfileDir(n int) string {
	return filepath.Join(b.ProfileRoot, fmt.Sprintf("Profile %d", n))
}
