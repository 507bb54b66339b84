package translation

import (
	"reflect"
	"testing"
)

func TestModels(t *testing.T) {
	tests := []struct {
		provider string
		want     []string
		def      string
	}{
		{"openai", []string{"gpt-4", "gpt-3.5-turbo"}, "gpt-4"},
		{"", []string{"gpt-4", "gpt-3.5-turbo"}, "gpt-4"},
		{"Gemini", []string{"gemini-2.0-flash", "gemini-1.5-pro"}, "gemini-2.0-flash"},
		{"unknown", []string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := Models(tt.provider); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Models(%q) = %v, want %v", tt.provider, got, tt.want)
			}
			if got := DefaultModel(tt.provider); got != tt.def {
				t.Errorf("DefaultModel(%q) = %q, want %q", tt.provider, got, tt.def)
			}
		})
	}

	// Returned slice must be a copy
	models := Models("openai")
	models[0] = "modified"
	if DefaultModel("openai") != "gpt-4" {
		t.Error("Model catalog was modified through returned slice")
	}
}

func TestIsKnownModel(t *testing.T) {
	if !IsKnownModel("openai", "gpt-3.5-turbo") {
		t.Error("gpt-3.5-turbo should be known for openai")
	}
	if IsKnownModel("openai", "gemini-1.5-pro") {
		t.Error("gemini-1.5-pro should not be known for openai")
	}
	if IsKnownModel("openai", "") {
		t.Error("Empty model should not be known")
	}
}

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
		breaker bool
	}{
		{
			name:    "missing OpenAI key",
			config:  &Config{Provider: "openai"},
			wantErr: true,
			errMsg:  "OpenAI API key not found",
		},
		{
			name:    "missing Gemini key",
			config:  &Config{Provider: "gemini"},
			wantErr: true,
			errMsg:  "Gemini API key not found",
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "deepl", OpenAIKey: "k"},
			wantErr: true,
			errMsg:  "unknown translation provider: deepl",
		},
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: true,
			errMsg:  "OpenAI API key not found",
		},
		{
			name:    "OpenAI with breaker",
			config:  &Config{Provider: "openai", OpenAIKey: "test-key", BreakerFailures: 3},
			breaker: true,
		},
		{
			name:   "OpenAI without breaker",
			config: &Config{Provider: "openai", OpenAIKey: "test-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := NewCompleter(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCompleter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Error() != tt.errMsg {
					t.Errorf("NewCompleter() error = %q, want %q", err.Error(), tt.errMsg)
				}
				return
			}

			_, isBreaker := completer.(*BreakerCompleter)
			if isBreaker != tt.breaker {
				t.Errorf("Completer type %T, breaker wanted: %v", completer, tt.breaker)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", config.Provider)
	}
	if config.BreakerFailures != 5 {
		t.Errorf("BreakerFailures = %d, want 5", config.BreakerFailures)
	}
}
