package simconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestRoundTripWithoutSubstitutions(t *testing.T) {
	genic := map[string]string{
		"BoxSize":  "100",
		"Nmesh":    "512",
		"Redshift": "99",
		"Omega0":   "0.3089",
	}
	path := filepath.Join(t.TempDir(), "sim.genic")
	require.NoError(t, WriteGenic(path, genic, Options{}))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, genic, got)
}

func TestGenicSubstitutions(t *testing.T) {
	genic := map[string]string{
		"BoxSize":               "100",
		"OutputDir":             "/cluster/from/paper",
		"FileBase":              "IC_paper",
		"FileWithInputSpectrum": "spectrum.dat",
	}
	path := filepath.Join(t.TempDir(), "sim.genic")
	opts := Options{OutputDir: "/local/run", TransferFunction: "/data/class_tk_99.dat"}
	require.NoError(t, WriteGenic(path, genic, opts))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/local/run", got["OutputDir"])
	assert.Equal(t, "ICs", got["FileBase"])
	assert.Equal(t, "/local/run/spectrum.dat", got["FileWithInputSpectrum"])
	assert.Equal(t, "/data/class_tk_99.dat", got["FileWithTransferFunction"])
	// Non-special keys round-trip untouched.
	assert.Equal(t, "100", got["BoxSize"])
}

func TestGadgetSubstitutions(t *testing.T) {
	gadget := map[string]string{
		"InitCondFile": "whatever",
		"OutputDir":    "/cluster/from/paper",
		"TimeMax":      "1.0",
	}
	path := filepath.Join(t.TempDir(), "sim.gadget")
	require.NoError(t, WriteGadget(path, gadget, Options{OutputDir: "/local/run"}))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/local/run", got["OutputDir"])
	assert.Equal(t, "/local/run/ICs", got["InitCondFile"])
	assert.Equal(t, "1.0", got["TimeMax"])
}

func TestParseFileRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gadget")
	require.NoError(t, writeRaw(path, "TimeMax = 1.0\nnot a key value line\n"))

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed line")
}

func TestValidateReportsMissing(t *testing.T) {
	genic := map[string]string{"OutputDir": "o", "FileWithInputSpectrum": "s", "FileBase": "f", "Nmesh": "512", "BoxSize": "100"}
	gadget := map[string]string{"InitCondFile": "i", "OutputDir": "o", "TimeMax": "1.0", "OutputList": "0.5,1.0"}
	assert.Empty(t, Validate(genic, gadget))

	delete(genic, "BoxSize")
	delete(gadget, "OutputList")
	missing := Validate(genic, gadget)
	assert.ElementsMatch(t, []string{"genic.BoxSize", "gadget.OutputList"}, missing)
}
