// Package slurm generates sbatch scripts for MP-Gadget runs and submits
// them. The science is in the configuration files; this is deliberately thin
// glue around the scheduler.
package slurm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/astrosim/simagent/internal/config"
)

const scriptTemplate = `#!/bin/bash
#SBATCH --partition={{.Partition}}
#SBATCH --nodes={{.Nodes}}
#SBATCH --ntasks-per-node={{.NTasks}}
#SBATCH --cpus-per-task={{.CPUsPerTask}}
#SBATCH --time={{.Time}}
#SBATCH --mem-per-cpu={{.MemPerCPU}}
#SBATCH --job-name={{.JobName}}
{{- if .Email}}
#SBATCH --mail-type=END,FAIL
#SBATCH --mail-user={{.Email}}
{{- end}}

set -e

mpirun {{.MPGadgetRoot}}/genic/MP-GenIC {{.GenicFile}}
mpirun {{.MPGadgetRoot}}/gadget/MP-Gadget {{.GadgetFile}}
`

type scriptParams struct {
	config.SlurmSettings
	JobName    string
	GenicFile  string
	GadgetFile string
}

// Submitter writes job scripts and hands them to sbatch.
type Submitter struct {
	Settings config.SlurmSettings

	// run is swapped in tests; the default shells out to sbatch.
	run func(ctx context.Context, scriptPath string) (string, error)
}

func NewSubmitter(settings config.SlurmSettings) *Submitter {
	return &Submitter{Settings: settings, run: runSbatch}
}

// WriteScript renders the sbatch script for one simulation into dir and
// returns its path.
func (s *Submitter) WriteScript(dir, jobName, genicFile, gadgetFile string) (string, error) {
	if s.Settings.MPGadgetRoot == "" {
		return "", fmt.Errorf("slurm: MP-Gadget root not configured (slurm.mp_gadget_root)")
	}

	tmpl, err := template.New("sbatch").Parse(scriptTemplate)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	params := scriptParams{
		SlurmSettings: s.Settings,
		JobName:       jobName,
		GenicFile:     genicFile,
		GadgetFile:    gadgetFile,
	}
	if err := tmpl.Execute(&b, params); err != nil {
		return "", fmt.Errorf("slurm: render script: %w", err)
	}

	path := filepath.Join(dir, jobName+".sbatch")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Submit renders the script and submits it, returning the scheduler job ID.
func (s *Submitter) Submit(ctx context.Context, dir, jobName, genicFile, gadgetFile string) (string, error) {
	path, err := s.WriteScript(dir, jobName, genicFile, gadgetFile)
	if err != nil {
		return "", err
	}
	return s.run(ctx, path)
}

func runSbatch(ctx context.Context, scriptPath string) (string, error) {
	out, err := exec.CommandContext(ctx, "sbatch", scriptPath).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("slurm: sbatch failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return parseJobID(string(out))
}

// parseJobID extracts the job number from sbatch's
// "Submitted batch job 12345" acknowledgement.
func parseJobID(output string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) == 0 {
		return "", fmt.Errorf("slurm: empty sbatch output")
	}
	id := fields[len(fields)-1]
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("slurm: unexpected sbatch output %q", strings.TrimSpace(output))
		}
	}
	return id, nil
}
