package language

import (
	"fmt"
	"strings"
)

// Language is one entry of the fixed target language catalog
type Language int

const (
	Hindi Language = iota
	Bengali
	Telugu
	Marathi
	Tamil
	Gujarati
	Kannada
	Malayalam
	Punjabi
	Odia
	Assamese
	Urdu
)

type entry struct {
	name        string
	code        string
	instruction string
}

// catalog is indexed by Language and never mutated
var catalog = [...]entry{
	Hindi:     {name: "Hindi", code: "hi", instruction: "Hindi"},
	Bengali:   {name: "Bengali", code: "bn", instruction: "Bengali"},
	Telugu:    {name: "Telugu", code: "te", instruction: "Telugu"},
	Marathi:   {name: "Marathi", code: "mr", instruction: "Marathi"},
	Tamil:     {name: "Tamil", code: "ta", instruction: "Tamil"},
	Gujarati:  {name: "Gujarati", code: "gu", instruction: "Gujarati"},
	Kannada:   {name: "Kannada", code: "kn", instruction: "Kannada"},
	Malayalam: {name: "Malayalam", code: "ml", instruction: "Malayalam"},
	Punjabi:   {name: "Punjabi (Gurmukhi)", code: "pa", instruction: "Punjabi written in Gurmukhi script"},
	Odia:      {name: "Odia", code: "or", instruction: "Odia"},
	Assamese:  {name: "Assamese", code: "as", instruction: "Assamese"},
	Urdu:      {name: "Urdu", code: "ur", instruction: "Urdu using the Perso-Arabic script"},
}

// DefaultSelection is preselected in the GUI and used when no languages are configured
var DefaultSelection = []Language{Hindi, Tamil, Telugu}

// All returns every supported language in catalog order
func All() []Language {
	all := make([]Language, len(catalog))
	for i := range catalog {
		all[i] = Language(i)
	}
	return all
}

// Names returns the display names of all languages in catalog order
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.name
	}
	return names
}

// Valid reports whether l is part of the catalog
func (l Language) Valid() bool {
	return l >= 0 && int(l) < len(catalog)
}

// String returns the display name, e.g. "Punjabi (Gurmukhi)"
func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return catalog[l].name
}

// Code returns the ISO 639-1 code
func (l Language) Code() string {
	if !l.Valid() {
		return ""
	}
	return catalog[l].code
}

// Instruction returns the language and script description embedded in prompts
func (l Language) Instruction() string {
	if !l.Valid() {
		return ""
	}
	return catalog[l].instruction
}

// Parse resolves a display name, bare name or ISO code, ignoring case
func Parse(s string) (Language, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return 0, fmt.Errorf("language name is empty")
	}

	for i, e := range catalog {
		if needle == strings.ToLower(e.name) || needle == e.code {
			return Language(i), nil
		}
		// "Punjabi" without the script suffix
		if bare, _, found := strings.Cut(strings.ToLower(e.name), " ("); found && needle == bare {
			return Language(i), nil
		}
	}

	return 0, fmt.Errorf("unsupported language: %q", s)
}

// ParseList parses names in order and drops duplicates, keeping the first occurrence
func ParseList(names []string) ([]Language, error) {
	langs := make([]Language, 0, len(names))
	for _, name := range names {
		lang, err := Parse(name)
		if err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return Dedupe(langs), nil
}

// Dedupe returns langs without repeated entries, order preserved
func Dedupe(langs []Language) []Language {
	seen := make(map[Language]struct{}, len(langs))
	out := make([]Language, 0, len(langs))
	for _, l := range langs {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// MarshalText encodes the display name so languages can key JSON objects
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid language %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText accepts anything Parse does
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
