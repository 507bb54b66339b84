package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/prompt"
)

// DefaultConcurrency is the number of languages translated at once
const DefaultConcurrency = 4

// Dispatcher translates one text into several languages, one request per
// language, containing each language's failure in its Outcome
type Dispatcher struct {
	completer      Completer
	concurrency    int
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithConcurrency limits how many requests run at once; 1 is sequential
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithRequestTimeout bounds every single request; 0 means no extra bound
func WithRequestTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.requestTimeout = timeout
	}
}

// WithLogger sets the logger used for contained failures
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over the given endpoint
func NewDispatcher(completer Completer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		completer:   completer,
		concurrency: DefaultConcurrency,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDuration returns how long TranslateMany can take for n languages when
// every request runs into the request timeout. It is 0 when requests are
// not bounded.
func (d *Dispatcher) MaxDuration(n int) time.Duration {
	if d.requestTimeout <= 0 || n <= 0 {
		return 0
	}
	rounds := (n + d.concurrency - 1) / d.concurrency
	return time.Duration(rounds) * d.requestTimeout
}

// TranslateOne translates text into lang. It never returns an error: any
// failure of the call is captured in the Outcome.
func (d *Dispatcher) TranslateOne(ctx context.Context, model, text string, lang language.Language) Outcome {
	req := ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: prompt.SystemPreamble},
			{Role: RoleUser, Content: prompt.ForLanguage(lang, text)},
		},
		Temperature: prompt.Temperature,
	}

	if d.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := d.complete(ctx, req)
	if err != nil {
		d.logger.Warn().
			Err(err).
			Str("language", lang.String()).
			Str("model", model).
			Dur("elapsed", time.Since(start)).
			Msg("translation failed")
		return Outcome{Language: lang, Err: err}
	}

	d.logger.Debug().
		Str("language", lang.String()).
		Str("model", model).
		Dur("elapsed", time.Since(start)).
		Msg("translation completed")

	return Outcome{Language: lang, Text: strings.TrimSpace(reply)}
}

// complete calls the endpoint, turning a panic into an error so that it
// stays contained in one language's outcome
func (d *Dispatcher) complete(ctx context.Context, req ChatRequest) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.completer.Complete(ctx, req)
}

// TranslateMany translates text into every language in langs. The result has
// exactly one outcome per input language in input order, however many calls
// failed. An empty langs issues no calls.
func (d *Dispatcher) TranslateMany(ctx context.Context, model, text string, langs []language.Language) Result {
	outcomes := make([]Outcome, len(langs))
	if len(langs) == 0 {
		return Result{Outcomes: outcomes}
	}

	// Each goroutine owns one slot of outcomes
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, lang := range langs {
		g.Go(func() error {
			outcomes[i] = d.TranslateOne(ctx, model, text, lang)
			return nil
		})
	}
	_ = g.Wait()

	return Result{Outcomes: outcomes}
}
