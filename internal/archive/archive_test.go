package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()
	deck := filepath.Join(tmpDir, "phrases.apkg")
	if err := os.WriteFile(deck, []byte("old deck"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	now := time.Date(2025, 3, 1, 14, 30, 5, 0, time.UTC)
	archived, err := archiveFileAt(deck, now)
	if err != nil {
		t.Fatalf("ArchiveFile failed: %v", err)
	}

	want := filepath.Join(tmpDir, Dir, "phrases-20250301-143005.apkg")
	if archived != want {
		t.Errorf("archived to %q, want %q", archived, want)
	}

	if _, err := os.Stat(deck); !os.IsNotExist(err) {
		t.Error("Original file still exists after archiving")
	}

	content, err := os.ReadFile(archived)
	if err != nil {
		t.Fatalf("Failed to read archived file: %v", err)
	}
	if string(content) != "old deck" {
		t.Errorf("Archived content = %q, want %q", content, "old deck")
	}
}

func TestArchiveFile_Missing(t *testing.T) {
	archived, err := ArchiveFile(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("ArchiveFile failed: %v", err)
	}
	if archived != "" {
		t.Errorf("archived = %q, want empty", archived)
	}
}

func TestArchiveFile_Directory(t *testing.T) {
	if _, err := ArchiveFile(t.TempDir()); err == nil {
		t.Error("Expected error for directory")
	}
}

func TestArchiveFile_SameSecond(t *testing.T) {
	tmpDir := t.TempDir()
	export := filepath.Join(tmpDir, "out.csv")
	now := time.Date(2025, 3, 1, 14, 30, 5, 123456000, time.UTC)

	var paths []string
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(export, []byte("data"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		archived, err := archiveFileAt(export, now)
		if err != nil {
			t.Fatalf("ArchiveFile failed: %v", err)
		}
		paths = append(paths, archived)
	}

	if paths[0] == paths[1] {
		t.Fatalf("Both archives use %q", paths[0])
	}
	if !strings.HasSuffix(paths[1], "-20250301-143005.123456.csv") {
		t.Errorf("Second archive = %q, want microsecond suffix", paths[1])
	}
}
