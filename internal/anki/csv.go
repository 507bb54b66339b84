package anki

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes cards in Anki's CSV import layout
func WriteCSV(w io.Writer, cards []Card, includeHeaders bool) error {
	writer := csv.NewWriter(w)

	// Write headers if requested
	if includeHeaders {
		headers := []string{"English", "Translation", "Language", "Notes"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range cards {
		record := []string{
			card.English,
			card.Translation,
			card.Language.String(),
			card.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
