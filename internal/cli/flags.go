package cli

import (
	"time"

	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile       string
	EnvFile       string
	BatchFile     string
	ListModels    bool
	ListLanguages bool
	GUIMode       bool

	// Export flags
	AnkiFile string
	DeckName string
	Romanize bool

	// Translation flags
	Provider    string
	Model       string
	Languages   []string
	Concurrency int
	Timeout     time.Duration
	HistorySize int

	// Logging flags
	LogLevel       string
	LogEnvironment string

	// OpenAI flags
	OpenAIBaseURL string

	// Server flags
	Host string
	Port int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		EnvFile:        ".env",
		Provider:       translation.ProviderOpenAI,
		Languages:      []string{"Hindi", "Tamil", "Telugu"},
		Concurrency:    translation.DefaultConcurrency,
		Timeout:        60 * time.Second,
		HistorySize:    history.DefaultSize,
		LogLevel:       "info",
		LogEnvironment: "local",
		Host:           "127.0.0.1",
		Port:           8080,
	}
}
