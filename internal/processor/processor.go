package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/indictrans/internal"
	"codeberg.org/snonux/indictrans/internal/batch"
	"codeberg.org/snonux/indictrans/internal/cli"
	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/langdetect"
	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/translation"
)

var (
	// ErrEmptyText is returned for text that is empty after trimming
	ErrEmptyText = errors.New("text to translate is empty")
	// ErrNoLanguages is returned when no target language is selected
	ErrNoLanguages = errors.New("no target languages selected")
	// ErrUnknownModel is returned for a model the provider does not offer
	ErrUnknownModel = errors.New("unknown model")
)

// Request is one translation request from any front end
type Request struct {
	Text      string
	Model     string // empty selects the provider's default model
	Languages []language.Language
}

// Options configures a Processor
type Options struct {
	Provider    string
	Model       string              // default model, empty for the provider default
	Languages   []language.Language // default selection, nil for Hindi, Tamil, Telugu
	Concurrency int
	Timeout     time.Duration
	HistorySize int
	Logger      zerolog.Logger
	// Detect returns the ISO 639-1 code of the source text; nil uses lingua
	Detect func(text string) string
}

// Processor handles the main translation logic
type Processor struct {
	provider     string
	defaultModel string
	languages    []language.Language
	dispatcher   *translation.Dispatcher
	history      *history.Store
	detect       func(string) string
	logger       zerolog.Logger
}

// New creates a processor over the given translation endpoint
func New(completer translation.Completer, opts Options) *Processor {
	provider := opts.Provider
	if provider == "" {
		provider = translation.ProviderOpenAI
	}

	model := opts.Model
	if model == "" {
		model = translation.DefaultModel(provider)
	}

	langs := language.Dedupe(opts.Languages)
	if len(langs) == 0 {
		langs = append([]language.Language(nil), language.DefaultSelection...)
	}

	detect := opts.Detect
	if detect == nil {
		detect = langdetect.DetectISO6391
	}

	return &Processor{
		provider:     provider,
		defaultModel: model,
		languages:    langs,
		dispatcher: translation.NewDispatcher(completer,
			translation.WithConcurrency(opts.Concurrency),
			translation.WithRequestTimeout(opts.Timeout),
			translation.WithLogger(opts.Logger),
		),
		history: history.NewStore(opts.HistorySize),
		detect:  detect,
		logger:  opts.Logger,
	}
}

// NewProcessor creates a processor from resolved settings. It fails when the
// endpoint cannot be created, e.g. because the API key is missing.
func NewProcessor(settings *cli.Settings, logger zerolog.Logger) (*Processor, error) {
	completer, err := translation.NewCompleter(settings.TranslationConfig())
	if err != nil {
		return nil, err
	}

	return New(completer, Options{
		Provider:    settings.Provider,
		Model:       settings.Model,
		Languages:   settings.Languages,
		Concurrency: settings.Concurrency,
		Timeout:     settings.Timeout,
		HistorySize: settings.HistorySize,
		Logger:      logger,
	}), nil
}

// Translate validates req, translates the text into every selected language
// and records the request in the history. Per-language failures are part of
// the returned entry; the error is only set for invalid requests.
func (p *Processor) Translate(ctx context.Context, req Request) (history.Entry, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return history.Entry{}, ErrEmptyText
	}

	langs := language.Dedupe(req.Languages)
	if len(langs) == 0 {
		return history.Entry{}, ErrNoLanguages
	}
	for _, lang := range langs {
		if !lang.Valid() {
			return history.Entry{}, fmt.Errorf("unsupported language: %v", lang)
		}
	}

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	if !translation.IsKnownModel(p.provider, model) {
		return history.Entry{}, fmt.Errorf("%w %q for provider %s (available: %s)",
			ErrUnknownModel, model, p.provider, strings.Join(p.Models(), ", "))
	}

	source := p.detect(text)
	if !langdetect.LooksEnglish(source) {
		p.logger.Warn().
			Str("detected", source).
			Str("text", internal.Truncate(text, 40)).
			Msg("source text does not look like English")
	}

	start := time.Now()
	result := p.dispatcher.TranslateMany(ctx, model, text, langs)

	entry := history.Entry{
		ID:             internal.GenerateRequestID(text),
		Text:           text,
		Model:          model,
		SourceLanguage: source,
		Result:         result,
		CreatedAt:      time.Now(),
	}
	p.history.Add(entry)

	p.logger.Info().
		Str("id", entry.ID).
		Str("model", model).
		Int("languages", result.Len()).
		Int("failed", result.Failed()).
		Dur("elapsed", time.Since(start)).
		Msg("request translated")

	return entry, nil
}

// History returns the recorded requests, newest first
func (p *Processor) History() []history.Entry {
	return p.history.Entries()
}

// ClearHistory drops all recorded requests
func (p *Processor) ClearHistory() {
	p.history.Clear()
	p.logger.Debug().Msg("history cleared")
}

// Provider returns the translation provider name
func (p *Processor) Provider() string {
	return p.provider
}

// Models returns the models of the configured provider
func (p *Processor) Models() []string {
	return translation.Models(p.provider)
}

// DefaultModel returns the model used when a request names none
func (p *Processor) DefaultModel() string {
	return p.defaultModel
}

// MaxDuration returns the longest a Translate call over all supported
// languages can take, or 0 when requests have no timeout
func (p *Processor) MaxDuration() time.Duration {
	return p.dispatcher.MaxDuration(len(language.All()))
}

// DefaultLanguages returns a copy of the configured language selection
func (p *Processor) DefaultLanguages() []language.Language {
	return append([]language.Language(nil), p.languages...)
}

// ProcessSingleText translates text into the configured languages and
// prints the result
func (p *Processor) ProcessSingleText(ctx context.Context, w io.Writer, text string) (history.Entry, error) {
	entry, err := p.Translate(ctx, Request{Text: text, Languages: p.languages})
	if err != nil {
		return history.Entry{}, err
	}

	PrintEntry(w, entry)
	return entry, nil
}

// ProcessBatch translates every text of a batch file, one request per line.
// Invalid lines are reported and skipped. It returns the translated
// requests, which may outnumber the history size.
func (p *Processor) ProcessBatch(ctx context.Context, w io.Writer, path string) ([]history.Entry, error) {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return nil, err
	}

	translated := make([]history.Entry, 0, len(entries))

	// Track statistics
	translatedCount := 0
	partialCount := 0
	errorCount := 0

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return translated, fmt.Errorf("batch interrupted after %d of %d texts: %w", i, len(entries), err)
		}

		langs := e.Languages
		if len(langs) == 0 {
			langs = p.languages
		}

		fmt.Fprintf(w, "\nProcessing %d/%d (line %d)\n", i+1, len(entries), e.Line)

		entry, err := p.Translate(ctx, Request{Text: e.Text, Languages: langs})
		if err != nil {
			fmt.Fprintf(w, "Error processing line %d: %v\n", e.Line, err)
			errorCount++
			continue
		}

		PrintEntry(w, entry)
		translated = append(translated, entry)
		if entry.Result.Failed() > 0 {
			partialCount++
		} else {
			translatedCount++
		}
	}

	// Print summary
	fmt.Fprintf(w, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(w, "Total texts: %d\n", len(entries))
	fmt.Fprintf(w, "Translated: %d\n", translatedCount)
	if partialCount > 0 {
		fmt.Fprintf(w, "With failed languages: %d\n", partialCount)
	}
	if errorCount > 0 {
		fmt.Fprintf(w, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(w, "=================================\n")

	return translated, nil
}

// PrintEntry writes one request and its rendered outcomes in request order
func PrintEntry(w io.Writer, entry history.Entry) {
	fmt.Fprintf(w, "Model: %s\n", entry.Model)
	fmt.Fprintf(w, "Text: %s\n", entry.Text)
	for _, o := range entry.Result.Outcomes {
		fmt.Fprintf(w, "  %s: %s\n", o.Language, o.Render())
	}
}
