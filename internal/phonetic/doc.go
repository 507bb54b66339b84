// Package phonetic asks the chat model for romanized pronunciations of
// translations, so learners who cannot read the target script yet can still
// use the exported flashcards.
package phonetic
