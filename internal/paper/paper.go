// Package paper loads publication text for extraction runs. Only plaintext
// formats are read locally; PDFs are handled upstream by uploading the raw
// file to the retrieval index instead of converting it here.
package paper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Collaborator turns a file on disk into the paper text handed to the
// extraction agents.
type Collaborator interface {
	Load(path string) (string, error)
}

// TextLoader reads .txt and .md files as UTF-8 text.
type TextLoader struct{}

func (TextLoader) Load(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
	default:
		return "", fmt.Errorf("paper: unsupported file type %q (want .txt or .md)", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("paper: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("paper: %s is not valid UTF-8 text", path)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("paper: %s is empty", path)
	}
	return text, nil
}

// Load reads a paper with the default loader.
func Load(path string) (string, error) {
	return TextLoader{}.Load(path)
}
