// Package anki exports translations as Anki flashcards, either as a ready
// to import package (.apkg) or as a CSV file for Anki's text import.
package anki

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/language"
)

// Card represents a single Anki flashcard
type Card struct {
	English     string            // The source text
	Translation string            // The translated text
	Language    language.Language // Target language of Translation
	Notes       string            // Optional notes
}

// CardsFromEntries creates one card per successful translation. Failed
// languages and empty translations are skipped.
func CardsFromEntries(entries []history.Entry) []Card {
	var cards []Card
	for _, e := range entries {
		for _, o := range e.Result.Outcomes {
			if !o.OK() || strings.TrimSpace(o.Text) == "" {
				continue
			}
			cards = append(cards, Card{
				English:     e.Text,
				Translation: o.Text,
				Language:    o.Language,
				Notes:       fmt.Sprintf("Model: %s", e.Model),
			})
		}
	}
	return cards
}
