package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/spf13/viper"

	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/translation"
)

// Settings is the effective configuration after merging flags, environment
// and config file
type Settings struct {
	Provider    string
	Model       string
	Languages   []language.Language
	Concurrency int
	Timeout     time.Duration
	HistorySize int

	BreakerFailures uint32
	BreakerCooldown time.Duration

	LogLevel       string
	LogEnvironment string

	OpenAIKey     string
	OpenAIBaseURL string
	GeminiKey     string

	Host string
	Port int
}

// LoadSettings resolves the effective settings from viper
func LoadSettings() (*Settings, error) {
	langs, err := language.ParseList(languageNames(viper.Get("translate.languages")))
	if err != nil {
		return nil, fmt.Errorf("invalid translate.languages: %w", err)
	}

	s := &Settings{
		Provider:        viper.GetString("translate.provider"),
		Model:           viper.GetString("translate.model"),
		Languages:       langs,
		Concurrency:     viper.GetInt("translate.concurrency"),
		Timeout:         viper.GetDuration("translate.timeout"),
		HistorySize:     viper.GetInt("history.size"),
		BreakerFailures: viper.GetUint32("translate.breaker_failures"),
		BreakerCooldown: viper.GetDuration("translate.breaker_cooldown"),
		LogLevel:        viper.GetString("log.level"),
		LogEnvironment:  viper.GetString("log.environment"),
		OpenAIKey:       GetOpenAIKey(),
		OpenAIBaseURL:   viper.GetString("openai.base_url"),
		GeminiKey:       GetGeminiKey(),
		Host:            viper.GetString("server.host"),
		Port:            viper.GetInt("server.port"),
	}

	if s.Provider == "" {
		s.Provider = translation.ProviderOpenAI
	}
	if s.Model == "" {
		s.Model = translation.DefaultModel(s.Provider)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return s, nil
}

// Validate checks value ranges; credentials are checked when the endpoint
// is created
func (s *Settings) Validate() error {
	if len(translation.Models(s.Provider)) == 0 {
		return fmt.Errorf("unknown translation provider: %s", s.Provider)
	}
	if !translation.IsKnownModel(s.Provider, s.Model) {
		return fmt.Errorf("model %q is not available for provider %s (available: %v)", s.Model, s.Provider, translation.Models(s.Provider))
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("translate.concurrency must be >= 1")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("translate.timeout must be >= 0")
	}
	if s.HistorySize < 1 {
		return fmt.Errorf("history.size must be >= 1")
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}
	return nil
}

// TranslationConfig returns the endpoint configuration for these settings
func (s *Settings) TranslationConfig() *translation.Config {
	return &translation.Config{
		Provider:        s.Provider,
		OpenAIKey:       s.OpenAIKey,
		OpenAIBaseURL:   s.OpenAIBaseURL,
		GeminiKey:       s.GeminiKey,
		BreakerFailures: s.BreakerFailures,
		BreakerCooldown: s.BreakerCooldown,
	}
}

// languageNames splits a configured language list. Environment variables
// arrive as one string, which is split on commas so that names containing
// spaces like "Punjabi (Gurmukhi)" survive; lists from flags and config
// files are used as given.
func languageNames(v any) []string {
	var items []string
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		items = []string{v}
	default:
		items = cast.ToStringSlice(v)
	}

	var names []string
	for _, item := range items {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
