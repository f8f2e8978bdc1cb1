// Package extract recovers structured content from free-form assistant
// replies. Assistants are told to answer with bare JSON but routinely wrap it
// in prose or fenced code blocks, so every consumer goes through an ordered
// chain of parse strategies instead of a single json.Unmarshal.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON reports that no strategy could recover a JSON object.
var ErrNoJSON = errors.New("extract: no JSON object found in response")

// Strategy attempts one way of locating a JSON object inside text.
type Strategy struct {
	Name  string
	Parse func(text string, v any) error
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// JSONStrategies is the default chain, in priority order: the whole reply as
// JSON, the widest brace span, then the first fenced code block holding an
// object.
func JSONStrategies() []Strategy {
	return []Strategy{
		{Name: "direct", Parse: parseDirect},
		{Name: "brace-span", Parse: parseBraceSpan},
		{Name: "fenced-block", Parse: parseFenced},
	}
}

// JSONObject unmarshals the first recoverable JSON object in text into v.
// First strategy to succeed wins; if none do, the error aggregates every
// strategy's failure so the caller can log what was tried.
func JSONObject(text string, v any) error {
	return JSONObjectWith(JSONStrategies(), text, v)
}

// JSONObjectWith runs an explicit strategy chain.
func JSONObjectWith(strategies []Strategy, text string, v any) error {
	var failures []string
	for _, s := range strategies {
		if err := s.Parse(text, v); err == nil {
			return nil
		} else if !errors.Is(err, errNotApplicable) {
			failures = append(failures, fmt.Sprintf("%s: %v", s.Name, err))
		}
	}
	if len(failures) == 0 {
		return ErrNoJSON
	}
	return fmt.Errorf("%w (%s)", ErrNoJSON, strings.Join(failures, "; "))
}

// errNotApplicable marks a strategy that found nothing to parse, as opposed
// to one that found a candidate span which failed to unmarshal.
var errNotApplicable = errors.New("strategy not applicable")

func parseDirect(text string, v any) error {
	return json.Unmarshal([]byte(strings.TrimSpace(text)), v)
}

func parseBraceSpan(text string, v any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return errNotApplicable
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}

func parseFenced(text string, v any) error {
	m := fencedJSON.FindStringSubmatch(text)
	if m == nil {
		return errNotApplicable
	}
	return json.Unmarshal([]byte(m[1]), v)
}
