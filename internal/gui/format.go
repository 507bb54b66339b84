package gui

import (
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/processor"
)

// historyLimit is how many past requests the history panel shows
const historyLimit = history.DefaultSize

// warningFor turns a rejected request into the message shown to the user
func warningFor(err error) string {
	switch {
	case errors.Is(err, processor.ErrEmptyText):
		return "Please enter some English text to translate."
	case errors.Is(err, processor.ErrNoLanguages):
		return "Please select at least one target language."
	default:
		return err.Error()
	}
}

// statusFor summarises a completed request for the status bar
func statusFor(entry history.Entry) string {
	total := entry.Result.Len()
	failed := entry.Result.Failed()
	if failed == 0 {
		return fmt.Sprintf("Translated into %d language(s) with %s", total, entry.Model)
	}
	return fmt.Sprintf("Translated into %d of %d language(s) with %s, %d failed", total-failed, total, entry.Model, failed)
}

// historyDetail renders a past request for its accordion item
func historyDetail(entry history.Entry) string {
	var sb strings.Builder

	sb.WriteString("Original English:\n")
	sb.WriteString(entry.Text)
	sb.WriteString("\n\nTranslations:\n")
	for _, o := range entry.Result.Outcomes {
		fmt.Fprintf(&sb, "- %s:\n  %s\n", o.Language, o.Render())
	}

	return strings.TrimRight(sb.String(), "\n")
}

// visibleHistory returns the entries the history panel shows, newest first
func visibleHistory(entries []history.Entry) []history.Entry {
	if len(entries) > historyLimit {
		return entries[:historyLimit]
	}
	return entries
}

// selectionFromNames maps check group labels back to languages in catalog
// order, whatever order they were checked in
func selectionFromNames(names []string) []language.Language {
	checked := make(map[string]bool, len(names))
	for _, name := range names {
		checked[name] = true
	}

	var langs []language.Language
	for _, lang := range language.All() {
		if checked[lang.String()] {
			langs = append(langs, lang)
		}
	}
	return langs
}

// namesOf returns the display names of langs
func namesOf(langs []language.Language) []string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.String()
	}
	return names
}
