package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoCodeBlock reports that no runnable code block was found in a reply.
var ErrNoCodeBlock = errors.New("extract: no code block found in response")

var untaggedFence = regexp.MustCompile("(?s)```\\s*\n(.*?)```")

// codeMarkers are cheap signals that an untagged fence actually holds a
// script rather than sample output or JSON.
var codeMarkers = []string{"import ", "def ", "print(", "plt.", "#!"}

// CodeBlock returns the first fenced code block tagged with lang, falling
// back to the first untagged block that carries recognizable code markers.
func CodeBlock(text, lang string) (string, error) {
	tagged := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(lang) + "\\s*\n(.*?)```")
	if m := tagged.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	for _, m := range untaggedFence.FindAllStringSubmatch(text, -1) {
		body := m[1]
		for _, marker := range codeMarkers {
			if strings.Contains(body, marker) {
				return strings.TrimSpace(body), nil
			}
		}
	}
	return "", fmt.Errorf("%w (lang %q)", ErrNoCodeBlock, lang)
}
