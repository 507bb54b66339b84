package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/indictrans/internal/language"
)

// TextEntry is one text to translate from a batch file
type TextEntry struct {
	Line int    // 1-based line number in the file
	Text string // English source text
	// Languages overrides the configured selection when non-empty
	Languages []language.Language
}

// ReadBatchFile reads texts from a file and returns TextEntry slice
// Supports formats:
// - One English text per line: "Good morning"
// - Comments and blank lines are skipped: "# greetings"
// - Language directive: "@ hindi, urdu" applies to the following lines
// - Bare directive: "@" restores the configured selection
func ReadBatchFile(filename string) ([]TextEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	var entries []TextEntry
	var current []language.Language

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "@"):
			langs, err := parseDirective(strings.TrimPrefix(line, "@"))
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
			}
			current = langs
		default:
			entries = append(entries, TextEntry{
				Line:      lineNo,
				Text:      line,
				Languages: current,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}

// parseDirective parses the comma separated language list of an "@" line
func parseDirective(s string) ([]language.Language, error) {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	return language.ParseList(names)
}
