package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/indictrans/internal/anki"
	"codeberg.org/snonux/indictrans/internal/cli"
	"codeberg.org/snonux/indictrans/internal/gui"
	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/httpapi"
	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/logging"
	"codeberg.org/snonux/indictrans/internal/models"
	"codeberg.org/snonux/indictrans/internal/phonetic"
	"codeberg.org/snonux/indictrans/internal/processor"
	"codeberg.org/snonux/indictrans/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	serveCmd := cli.CreateServeCommand(flags)
	rootCmd.AddCommand(serveCmd)

	// Set up command initialization; the .env file goes first so its keys
	// are visible to the configuration
	cobra.OnInitialize(func() {
		if _, err := cli.LoadEnvFile(flags.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Handle --list-languages flag
	if flags.ListLanguages {
		printLanguages(cmd.OutOrStdout())
		return nil
	}

	settings, err := cli.LoadSettings()
	if err != nil {
		return err
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(settings.OpenAIKey, settings.OpenAIBaseURL)
		return lister.ListAvailableModels(cmd.Context(), cmd.OutOrStdout())
	}

	// No input provided - launch GUI mode by default
	if flags.GUIMode || (len(args) == 0 && flags.BatchFile == "") {
		return runGUIMode(settings)
	}

	logger, err := logging.New(settings.LogEnvironment, settings.LogLevel)
	if err != nil {
		return err
	}

	// Create processor
	proc, err := processor.NewProcessor(settings, logger)
	if err != nil {
		return err
	}

	var entries []history.Entry

	if flags.BatchFile != "" {
		// Handle batch processing
		entries, err = proc.ProcessBatch(cmd.Context(), cmd.OutOrStdout(), flags.BatchFile)
	} else {
		// Process single text
		var entry history.Entry
		entry, err = proc.ProcessSingleText(cmd.Context(), cmd.OutOrStdout(), args[0])
		entries = []history.Entry{entry}
	}
	if err != nil {
		return err
	}

	if flags.AnkiFile == "" {
		return nil
	}

	var fetcher *phonetic.Fetcher
	if flags.Romanize {
		completer, err := translation.NewCompleter(settings.TranslationConfig())
		if err != nil {
			return err
		}
		fetcher = phonetic.NewFetcher(completer, settings.Model, logger)
	}
	return exportDeck(cmd.Context(), cmd.OutOrStdout(), flags, entries, fetcher)
}

// exportDeck writes the translated entries to the --anki file, adding
// pronunciations when fetcher is set
func exportDeck(ctx context.Context, w io.Writer, flags *cli.Flags, entries []history.Entry, fetcher *phonetic.Fetcher) error {
	cards := anki.CardsFromEntries(entries)

	if fetcher != nil && len(cards) > 0 {
		var failed int
		cards, failed = fetcher.AnnotateCards(ctx, cards)
		if failed > 0 {
			fmt.Fprintf(w, "Warning: no pronunciation for %d of %d card(s)\n", failed, len(cards))
		}
	}

	archived, err := anki.Export(flags.AnkiFile, cards, anki.ExportOptions{
		DeckName:     flags.DeckName,
		KeepPrevious: true,
	})
	if err != nil {
		return fmt.Errorf("anki export failed: %w", err)
	}

	if archived != "" {
		fmt.Fprintf(w, "Previous export archived to: %s\n", archived)
	}
	fmt.Fprintf(w, "Exported %d card(s) to %s\n", len(cards), flags.AnkiFile)
	return nil
}

// runGUIMode starts the desktop GUI with its own log tab
func runGUIMode(settings *cli.Settings) error {
	logs := gui.NewLogBuffer(500)

	logger, err := logging.NewWithWriter(io.MultiWriter(os.Stderr, logs), settings.LogEnvironment, settings.LogLevel)
	if err != nil {
		return err
	}

	proc, err := processor.NewProcessor(settings, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("provider", proc.Provider()).
		Str("model", proc.DefaultModel()).
		Msg("starting GUI")

	app := gui.New(&gui.Config{
		Backend: proc,
		Logger:  logger,
		Logs:    logs,
	})
	app.Run()

	return nil
}

func runServe(cmd *cobra.Command) error {
	settings, err := cli.LoadSettings()
	if err != nil {
		return err
	}

	logger, err := logging.New(settings.LogEnvironment, settings.LogLevel)
	if err != nil {
		return err
	}

	proc, err := processor.NewProcessor(settings, logger)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(proc, logger, httpapi.Options{
		Host: settings.Host,
		Port: settings.Port,
	})
	return serveUntilDone(cmd.Context(), server, logger)
}

func serveUntilDone(ctx context.Context, server *httpapi.Server, logger zerolog.Logger) error {
	if err := server.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server failed")
		return err
	}
	return nil
}

// printLanguages lists the supported languages, marking the default selection
func printLanguages(w io.Writer) {
	defaults := make(map[language.Language]bool)
	for _, l := range language.DefaultSelection {
		defaults[l] = true
	}

	fmt.Fprintln(w, "Supported languages (* = selected by default):")
	for _, l := range language.All() {
		marker := " "
		if defaults[l] {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %-20s %s\n", marker, l, l.Code())
	}
}
