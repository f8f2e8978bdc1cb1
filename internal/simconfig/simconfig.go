// Package simconfig serializes an extracted parameter set into the two
// plaintext files MP-Gadget consumes: a .genic file for the initial-condition
// generator and a .gadget file for the main run. Files are "key = value"
// lines; a handful of path-valued keys are rewritten to local conventions so
// the generated configuration actually runs on this machine rather than the
// one described in the paper.
package simconfig

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Required parameter names per section. An extraction missing any of these
// cannot produce runnable configuration files.
var (
	RequiredGenic  = []string{"OutputDir", "FileWithInputSpectrum", "FileBase", "Nmesh", "BoxSize"}
	RequiredGadget = []string{"InitCondFile", "OutputDir", "TimeMax", "OutputList"}
)

// Options carry the local path conventions substituted into the files.
type Options struct {
	// OutputDir overrides OutputDir in both sections; InitCondFile becomes
	// OutputDir + FileBase.
	OutputDir string
	// FileBase overrides the IC file base name. Empty keeps "ICs".
	FileBase string
	// TransferFunction, when set, is appended as FileWithTransferFunction.
	TransferFunction string
}

func (o Options) fileBase() string {
	if o.FileBase == "" {
		return "ICs"
	}
	return o.FileBase
}

// WriteGenic writes the genic section to path with substitutions applied.
func WriteGenic(path string, genic map[string]string, opts Options) error {
	var b strings.Builder
	for _, key := range sortedKeys(genic) {
		value := genic[key]
		switch key {
		case "OutputDir":
			if opts.OutputDir != "" {
				value = opts.OutputDir
			}
		case "FileBase":
			value = opts.fileBase()
		case "FileWithInputSpectrum":
			if opts.OutputDir != "" && !filepath.IsAbs(value) {
				value = filepath.Join(opts.OutputDir, value)
			}
		case "FileWithTransferFunction":
			if opts.TransferFunction != "" {
				value = opts.TransferFunction
			}
		}
		fmt.Fprintf(&b, "%s = %s\n", key, value)
	}
	if opts.TransferFunction != "" {
		if _, ok := genic["FileWithTransferFunction"]; !ok {
			fmt.Fprintf(&b, "FileWithTransferFunction = %s\n", opts.TransferFunction)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteGadget writes the gadget section to path with substitutions applied.
func WriteGadget(path string, gadget map[string]string, opts Options) error {
	var b strings.Builder
	for _, key := range sortedKeys(gadget) {
		value := gadget[key]
		switch key {
		case "OutputDir":
			if opts.OutputDir != "" {
				value = opts.OutputDir
			}
		case "InitCondFile":
			if opts.OutputDir != "" {
				value = filepath.Join(opts.OutputDir, opts.fileBase())
			}
		}
		fmt.Fprintf(&b, "%s = %s\n", key, value)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// ParseFile reads a "key = value" configuration file back into a map.
// Blank lines and '#' comments are skipped.
func ParseFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	params := map[string]string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("simconfig: malformed line %q in %s", line, path)
		}
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return params, nil
}

// MissingFields reports which required keys a section lacks, prefixed with
// the section name for readable error lists.
func MissingFields(section string, params map[string]string, required []string) []string {
	var missing []string
	for _, field := range required {
		if _, ok := params[field]; !ok {
			missing = append(missing, fmt.Sprintf("%s.%s", section, field))
		}
	}
	return missing
}

// Validate checks both sections against the required field lists.
func Validate(genic, gadget map[string]string) []string {
	missing := MissingFields("genic", genic, RequiredGenic)
	return append(missing, MissingFields("gadget", gadget, RequiredGadget)...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
