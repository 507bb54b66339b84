package translation

import (
	"fmt"

	"codeberg.org/snonux/indictrans/internal/language"
)

// Outcome is the result of translating into one language: either Text on
// success or a contained Err
type Outcome struct {
	Language language.Language
	Text     string
	Err      error
}

// OK reports whether the translation succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Render returns the translation, or a bracketed error annotation for display
func (o Outcome) Render() string {
	if o.Err != nil {
		return fmt.Sprintf("[Error translating to %s: %v]", o.Language, o.Err)
	}
	return o.Text
}

// Result holds one Outcome per requested language, in request order
type Result struct {
	Outcomes []Outcome
}

// Len returns the number of languages in the result
func (r Result) Len() int {
	return len(r.Outcomes)
}

// Get returns the outcome for lang
func (r Result) Get(lang language.Language) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Language == lang {
			return o, true
		}
	}
	return Outcome{}, false
}

// Languages returns the result's languages in request order
func (r Result) Languages() []language.Language {
	langs := make([]language.Language, len(r.Outcomes))
	for i, o := range r.Outcomes {
		langs[i] = o.Language
	}
	return langs
}

// Failed returns the number of contained failures
func (r Result) Failed() int {
	failed := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed++
		}
	}
	return failed
}

// Rendered maps display names to rendered strings
func (r Result) Rendered() map[string]string {
	out := make(map[string]string, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out[o.Language.String()] = o.Render()
	}
	return out
}
