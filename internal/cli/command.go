package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/indictrans/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "indictrans [text]",
		Short: "English to Indian languages translator",
		Long: `indictrans translates English text into several Indian languages at once.

Each selected language gets its own request to the chat model; a failure
for one language is reported next to the others instead of aborting.

Examples:
  indictrans                                   # Launch interactive GUI (default)
  indictrans "Hello, how are you?"             # Translate into the default languages
  indictrans -l hindi,urdu -m gpt-3.5-turbo "Good morning"
  indictrans --batch phrases.txt               # Translate every line of a file
  indictrans --batch phrases.txt --anki phrases.apkg  # ... and export an Anki deck
  indictrans serve --port 8080                 # Start the HTTP API`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateServeCommand creates the "serve" subcommand running the HTTP API
func CreateServeCommand(flags *Flags) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation HTTP API",
		Args:  cobra.NoArgs,
	}

	serveCmd.Flags().StringVar(&flags.Host, "host", flags.Host, "Host interface to bind")
	serveCmd.Flags().IntVar(&flags.Port, "port", flags.Port, "HTTP port")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	return serveCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.indictrans.yaml)")
	cmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", flags.EnvFile, "Path to a .env file (ignored if missing)")
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai or gemini")
	cmd.PersistentFlags().StringVarP(&flags.Model, "model", "m", "", "Chat model (default: first model of the provider, e.g. gpt-4)")
	cmd.PersistentFlags().StringSliceVarP(&flags.Languages, "languages", "l", flags.Languages, "Target languages by name or ISO code")
	cmd.PersistentFlags().IntVar(&flags.Concurrency, "concurrency", flags.Concurrency, "Languages translated at once (1 = one after another)")
	cmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout for each translation request (0 = none)")
	cmd.PersistentFlags().IntVar(&flags.HistorySize, "history-size", flags.HistorySize, "Number of requests kept in history")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogEnvironment, "log-env", flags.LogEnvironment, "Log environment: local (console) or anything else (JSON)")
	cmd.PersistentFlags().StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of an OpenAI compatible API")

	// Local flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (one per line)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")
	cmd.Flags().BoolVar(&flags.ListLanguages, "list-languages", false, "List supported target languages")
	cmd.Flags().BoolVar(&flags.GUIMode, "gui", false, "Launch the GUI even when text is given")
	cmd.Flags().StringVar(&flags.AnkiFile, "anki", "", "Export translations as Anki deck (.apkg) or CSV (.csv)")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Anki deck name (default \"IndicTrans\")")
	cmd.Flags().BoolVar(&flags.Romanize, "romanize", false, "Add romanized pronunciation to exported cards (one extra request per card)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translate.provider", cmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("translate.model", cmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("translate.languages", cmd.PersistentFlags().Lookup("languages"))
	viper.BindPFlag("translate.concurrency", cmd.PersistentFlags().Lookup("concurrency"))
	viper.BindPFlag("translate.timeout", cmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("history.size", cmd.PersistentFlags().Lookup("history-size"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.environment", cmd.PersistentFlags().Lookup("log-env"))
	viper.BindPFlag("openai.base_url", cmd.PersistentFlags().Lookup("openai-base-url"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".indictrans" (without extension).
		// Lambda has no home directory; environment variables still apply.
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".indictrans")
	}

	// Environment variables, e.g. INDICTRANS_TRANSLATE_MODEL
	viper.SetEnvPrefix("INDICTRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	defaults := NewFlags()
	viper.SetDefault("translate.provider", defaults.Provider)
	viper.SetDefault("translate.languages", defaults.Languages)
	viper.SetDefault("translate.concurrency", defaults.Concurrency)
	viper.SetDefault("translate.timeout", defaults.Timeout)
	viper.SetDefault("translate.breaker_failures", 5)
	viper.SetDefault("translate.breaker_cooldown", "30s")
	viper.SetDefault("history.size", defaults.HistorySize)
	viper.SetDefault("log.level", defaults.LogLevel)
	viper.SetDefault("log.environment", defaults.LogEnvironment)
	viper.SetDefault("server.host", defaults.Host)
	viper.SetDefault("server.port", defaults.Port)
}

// LoadEnvFile loads variables from a .env file without overriding variables
// already set in the process environment. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return true, nil
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	return viper.GetString("gemini.api_key")
}
