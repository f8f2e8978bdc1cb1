package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Status values reported by the formatter agent and recorded per method run.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// ParameterSet holds the two MP-Gadget configuration sections produced by an
// extraction run. Values stay strings: the formatter may emit derived
// expressions ("1 - Omega0") that downstream tooling resolves.
type ParameterSet struct {
	Genic   map[string]string `json:"genic"`
	Gadget  map[string]string `json:"gadget"`
	Comment string            `json:"comment"`
}

func NewParameterSet() ParameterSet {
	return ParameterSet{
		Genic:  map[string]string{},
		Gadget: map[string]string{},
	}
}

// FormatterReply is the raw JSON contract emitted by the formatter agent.
// Status and MissingParameters are loop metadata and are stripped before a
// ParameterSet leaves the retriever.
type FormatterReply struct {
	Genic             map[string]string `json:"genic"`
	Gadget            map[string]string `json:"gadget"`
	Comment           string            `json:"comment"`
	Status            string            `json:"status"`
	MissingParameters []string          `json:"missing_parameters"`
}

// ParameterSet returns the reply with loop metadata removed.
func (r FormatterReply) ParameterSet() ParameterSet {
	set := ParameterSet{Genic: r.Genic, Gadget: r.Gadget, Comment: r.Comment}
	if set.Genic == nil {
		set.Genic = map[string]string{}
	}
	if set.Gadget == nil {
		set.Gadget = map[string]string{}
	}
	return set
}

// ReasoningLog is the append-only record of every agent exchange in one
// retrieval. Not safe for concurrent use; each retriever owns its own log.
type ReasoningLog struct {
	blocks []string
}

func (l *ReasoningLog) Append(block string) {
	l.blocks = append(l.blocks, block)
}

func (l *ReasoningLog) Appendf(format string, args ...any) {
	l.blocks = append(l.blocks, fmt.Sprintf(format, args...))
}

// Section appends a "=== title ===" header block.
func (l *ReasoningLog) Section(title string) {
	l.blocks = append(l.blocks, fmt.Sprintf("=== %s ===", title))
}

func (l *ReasoningLog) String() string {
	return strings.Join(l.blocks, "\n")
}

func (l *ReasoningLog) Len() int {
	return len(l.blocks)
}

// MethodResult is one retrieval method's outcome inside a comparison run.
// Results are independent across methods; a failure here never propagates.
type MethodResult struct {
	Status          string       `json:"status"`
	Error           string       `json:"error,omitempty"`
	Parameters      ParameterSet `json:"parameters,omitempty"`
	Reasoning       string       `json:"reasoning,omitempty"`
	ExecutionTime   float64      `json:"execution_time"`
	FormattedOutput string       `json:"-"`
}

// ComparisonReport aggregates every method's result for one paper, keyed by
// method name so completion order is irrelevant.
type ComparisonReport struct {
	ID           string                  `json:"id"`
	PaperName    string                  `json:"paper_name"`
	Timestamp    string                  `json:"timestamp"`
	CustomPrompt string                  `json:"custom_prompt,omitempty"`
	Methods      map[string]MethodResult `json:"methods"`
}

// MethodNames returns the method keys in lexical order for stable output.
func (r ComparisonReport) MethodNames() []string {
	names := make([]string, 0, len(r.Methods))
	for name := range r.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
