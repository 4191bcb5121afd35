package chunker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotFound signals that a document path does not exist or cannot be read
// as UTF-8 text. Callers surface it as a user message rather than a crash.
var ErrNotFound = errors.New("chunker: document not found or unreadable")

// LoadFile reads a UTF-8 text document. HTML files (.html, .htm) are reduced
// to their visible text. Any read or decode problem is reported as
// ErrNotFound so the caller can show a single clean error.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrNotFound, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractHTMLText(string(data), path)
	default:
		return string(data), nil
	}
}

// FileMetadata builds the metadata attached to every chunk of a document.
func FileMetadata(path string) map[string]string {
	return map[string]string{
		"source":   path,
		"filename": filepath.Base(path),
	}
}

func extractHTMLText(html, path string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text(), nil
}
