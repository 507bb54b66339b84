package anki

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/indictrans/internal/archive"
)

// DefaultDeckName is used when ExportOptions names no deck
const DefaultDeckName = "IndicTrans"

var (
	// ErrNoCards is returned when there is no successful translation to export
	ErrNoCards = errors.New("no translations to export")
	// ErrUnsupportedFormat is returned for extensions other than .apkg and .csv
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ExportOptions configures Export
type ExportOptions struct {
	DeckName string
	// KeepPrevious moves an existing file to the archive directory instead
	// of overwriting it
	KeepPrevious bool
}

// Export writes cards to path, choosing the format by extension. It returns
// where a previous file was archived to, if any.
func Export(path string, cards []Card, opts ExportOptions) (string, error) {
	if len(cards) == 0 {
		return "", ErrNoCards
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".apkg" && ext != ".csv" {
		return "", fmt.Errorf("%w: %q (use .apkg or .csv)", ErrUnsupportedFormat, ext)
	}

	var archived string
	if opts.KeepPrevious {
		var err error
		if archived, err = archive.ArchiveFile(path); err != nil {
			return "", err
		}
	}

	if ext == ".csv" {
		return archived, exportCSV(path, cards)
	}

	deckName := opts.DeckName
	if deckName == "" {
		deckName = DefaultDeckName
	}

	gen := NewAPKGGenerator(deckName)
	for _, card := range cards {
		gen.AddCard(card)
	}
	return archived, gen.GenerateAPKG(path)
}

func exportCSV(path string, cards []Card) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, cards, true); err != nil {
		return err
	}
	return file.Close()
}
