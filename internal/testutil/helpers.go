package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/indictrans/internal/translation"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateBatchFile writes lines to a batch file in a temporary directory
// and returns its path
func CreateBatchFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "batch.txt")
	CreateTestFile(t, path, []byte(strings.Join(lines, "\n")+"\n"))
	return path
}

// AssertOutcome checks the outcome for one language of a result
func AssertOutcome(t *testing.T, result translation.Result, want translation.Outcome) {
	t.Helper()

	got, ok := result.Get(want.Language)
	if !ok {
		t.Errorf("No outcome for %s in %v", want.Language, result.Languages())
		return
	}

	if (got.Err != nil) != (want.Err != nil) {
		t.Errorf("%s: error = %v, want error %v", want.Language, got.Err, want.Err)
		return
	}
	if got.Err == nil && got.Text != want.Text {
		t.Errorf("%s: text = %q, want %q", want.Language, got.Text, want.Text)
	}
}

// AssertContains checks that s contains every substring
func AssertContains(t *testing.T, s string, substrings ...string) {
	t.Helper()

	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			t.Errorf("Output does not contain expected substring %q:\n%s", sub, s)
		}
	}
}
