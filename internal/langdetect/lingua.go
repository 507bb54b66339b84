// Package langdetect guesses the language of the source text so that
// non-English input can be flagged. It only loads the models of English,
// the target languages lingua knows and a few common source languages.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"codeberg.org/snonux/indictrans/internal/language"
)

// minLetters is the shortest sample worth classifying
const minLetters = 6

// targets maps catalog languages to their lingua model. Kannada,
// Malayalam, Odia and Assamese have none.
var targets = map[language.Language]lingua.Language{
	language.Hindi:    lingua.Hindi,
	language.Bengali:  lingua.Bengali,
	language.Telugu:   lingua.Telugu,
	language.Marathi:  lingua.Marathi,
	language.Tamil:    lingua.Tamil,
	language.Gujarati: lingua.Gujarati,
	language.Punjabi:  lingua.Punjabi,
	language.Urdu:     lingua.Urdu,
}

// commonSources are non-English inputs users paste by mistake
var commonSources = []lingua.Language{
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
}

// SourceLanguages returns the languages the default detector tells apart:
// English first, then the supported targets in catalog order, then
// commonSources
func SourceLanguages() []lingua.Language {
	langs := []lingua.Language{lingua.English}
	for _, l := range language.All() {
		if model, ok := targets[l]; ok {
			langs = append(langs, model)
		}
	}
	return append(langs, commonSources...)
}

// Detector classifies text among a fixed set of languages. The lingua
// models are loaded on first use.
type Detector struct {
	languages []lingua.Language
	once      sync.Once
	detector  lingua.LanguageDetector
}

// NewDetector creates a detector for langs, which needs at least two entries
func NewDetector(langs ...lingua.Language) *Detector {
	return &Detector{languages: langs}
}

var defaultDetector = NewDetector(SourceLanguages()...)

// DetectISO6391 returns the ISO 639-1 code of text using the default
// detector, or "" when the text is too short or undetermined
func DetectISO6391(text string) string {
	return defaultDetector.DetectISO6391(text)
}

// DetectISO6391 returns the ISO 639-1 code of text, or "" when the text is
// too short or the language cannot be determined
func (d *Detector) DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if countLetters(sample) < minLetters {
		return ""
	}

	detected, ok := d.get().DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return strings.ToLower(detected.IsoCode639_1().String())
}

// LooksEnglish reports whether a detected code is English or undetermined
func LooksEnglish(code string) bool {
	return code == "" || code == "en"
}

func (d *Detector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(d.languages...).
			WithLowAccuracyMode().
			Build()
	})
	return d.detector
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
