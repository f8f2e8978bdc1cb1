// Package agent holds the visualization agents: thin wrappers around
// natural-language instruction templates that either hand the instruction to
// an external chat loop or drive a generate-then-execute cycle against a
// code-execution collaborator.
package agent

import "context"

// ExecResult is the structured outcome of running generated code.
type ExecResult struct {
	Success bool
	Output  string
	Error   string
}

// CodeExecutor runs a source-code string in an external environment. The
// agents never inspect generated code beyond extracting it; they only check
// the executor's reported success flag.
type CodeExecutor interface {
	Execute(ctx context.Context, source string) (ExecResult, error)
}
