package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateRequestID creates an ID for a translation request based on the
// current time and the source text.
// Format: epochMillis_md5(text)[:8]
func GenerateRequestID(text string) string {
	return generateRequestID(time.Now(), text)
}

func generateRequestID(now time.Time, text string) string {
	epochMillis := now.UnixMilli()

	// Hash the trimmed text so whitespace-only differences collapse
	hash := md5.Sum([]byte(strings.TrimSpace(text)))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// Truncate shortens s to at most n runes, appending "..." when cut
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
