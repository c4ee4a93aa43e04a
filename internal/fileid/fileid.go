// Package fileid provides deterministic identifiers for inbox files and resume contents.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

const (
	filePrefix    = "file:"
	contentPrefix = "sha256:"
)

// FileDocID returns a stable ID for a watched file path.
// Same path always yields the same ID.
func FileDocID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return filePrefix + hex.EncodeToString(hash[:])
}

// ContentID hashes resume text with whitespace runs collapsed, so the same
// resume re-extracted with different line breaks dedupes to one record.
func ContentID(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	hash := sha256.Sum256([]byte(normalized))
	return contentPrefix + hex.EncodeToString(hash[:])
}
