package agent

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// LocalExecutor runs generated python scripts in a working directory with a
// wall-clock timeout. It is the default code-execution collaborator for the
// visualization workflows.
type LocalExecutor struct {
	WorkDir string
	Python  string
	Timeout time.Duration
}

func NewLocalExecutor(workDir string, timeout time.Duration) *LocalExecutor {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &LocalExecutor{WorkDir: workDir, Python: "python3", Timeout: timeout}
}

// Execute writes source to a script file and runs it. A non-zero exit is a
// structured failure, not an error: the caller decides what to do with it.
func (e *LocalExecutor) Execute(ctx context.Context, source string) (ExecResult, error) {
	if err := os.MkdirAll(e.WorkDir, 0o755); err != nil {
		return ExecResult{}, err
	}
	scriptPath := filepath.Join(e.WorkDir, "generated_script.py")
	if err := os.WriteFile(scriptPath, []byte(source), 0o644); err != nil {
		return ExecResult{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, e.Python, scriptPath)
	cmd.Dir = e.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecResult{
		Success: err == nil,
		Output:  stdout.String(),
		Error:   stderr.String(),
	}
	if err != nil && result.Error == "" {
		result.Error = err.Error()
	}
	return result, nil
}
