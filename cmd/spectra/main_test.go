package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/spectra/config"
	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
)

const lampCSV = "380,0.5\n450,2.0\n500,1.0\n600,1.5\n780,0.8\n"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func vendorDump() string {
	var b strings.Builder
	b.WriteString("Model Name\tCV600\n")
	for i := 1; i < parser.VendorHeaderRows; i++ {
		if i >= parser.RValueFirstRow && i <= parser.RValueLastRow {
			fmt.Fprintf(&b, "R%d\t%d\n", i-parser.RValueFirstRow+1, 80+i)
			continue
		}
		fmt.Fprintf(&b, "Header %d\tvalue\n", i)
	}
	for w := 380; w <= 780; w += 5 {
		fmt.Fprintf(&b, "%dnm\t%g\n", w, 0.001*float64(w-370))
	}
	return b.String()
}

func TestAnalyzeJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lamp.csv", lampCSV)

	stdout, _, err := run(t, "analyze", path, "--lumens", "1000", "-o", "json")
	require.NoError(t, err)

	var rec photometrics.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &rec))
	assert.Equal(t, "lamp", rec.Name)
	assert.Equal(t, 450, rec.PeakWavelength)
	assert.Greater(t, rec.BluePercentage, 0.0)
	assert.Less(t, rec.BluePercentage, 100.0)
	assert.Greater(t, rec.MelanopicRatio, 0.0)
	assert.Greater(t, rec.PhotopicResponse, 0.0)
	require.NotNil(t, rec.MelanopicLumens)
	assert.Greater(t, *rec.MelanopicLumens, 0.0)
}

func TestAnalyzeText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lamp.csv", lampCSV)

	stdout, _, err := run(t, "analyze", path, "--name", "Desk Lamp", "--normalize", "--weight", "2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "Desk Lamp\n"))
	assert.Contains(t, stdout, "Melanopic ratio")
	assert.Contains(t, stdout, "Spectral G-index")
	assert.Contains(t, stdout, "Peak wavelength      450 nm")
	assert.NotContains(t, stdout, "Melanopic lumens")
}

func TestAnalyzeRowHandling(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lamp.csv", "380,0.5\n500,oops\n780,0.8\n")

	_, _, err := run(t, "analyze", path, "--format", "generic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrFormat))
	assert.Equal(t, exitBadInput, exitCode(err))
	assert.Contains(t, describeError(err), "not valid spectral data")

	stdout, _, err := run(t, "analyze", path, "--format", "generic", "--skip-invalid", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "melanopic_ratio:")

	// detected input tolerates the bad row without any flag
	stdout, _, err = run(t, "analyze", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "melanopic_ratio:")
}

func TestAnalyzeHeaderCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lamp.csv", "wavelength,intensity\n"+lampCSV)

	stdout, _, err := run(t, "analyze", path, "-o", "json")
	require.NoError(t, err)

	var rec photometrics.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &rec))
	assert.Equal(t, "lamp", rec.Name)
	assert.Greater(t, rec.PhotopicResponse, 0.0)
}

func TestAnalyzeSkipInvalidOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lamp.csv", "380,0.5\n500,oops\n780,0.8\n")
	cfg := writeFile(t, dir, "spectra.yaml", "import:\n  format: generic\n  skip_invalid: true\n")

	_, _, err := run(t, "analyze", path, "--config", cfg)
	require.NoError(t, err)

	_, _, err = run(t, "analyze", path, "--config", cfg, "--skip-invalid=false")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrFormat))
}

func TestAnalyzeSpectrum(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lamp.csv", lampCSV)

	stdout, _, err := run(t, "analyze", path, "--spectrum", "-o", "json")
	require.NoError(t, err)

	var report struct {
		Name     string            `json:"name"`
		Spectrum []spectrum.Sample `json:"spectrum"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "lamp", report.Name)
	require.Len(t, report.Spectrum, 421)
	assert.Equal(t, spectrum.Sample{Wavelength: 450, Value: 2.0}, report.Spectrum[450-360])

	stdout, _, err = run(t, "analyze", path, "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, stdout, `"spectrum"`)

	stdout, _, err = run(t, "analyze", path, "--spectrum")
	require.NoError(t, err)
	assert.Contains(t, stdout, "   450 nm  2\n")
}

func TestAnalyzeVendorDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "meter.txt", vendorDump())

	stdout, _, err := run(t, "analyze", path, "--format", "vendor-tab", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "meter"`)
}

func TestAnalyzeRejectsUnknownOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lamp.csv", lampCSV)

	_, _, err := run(t, "analyze", path, "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, _, err = run(t, "analyze", path, "--format", "xlsx")
	assert.ErrorContains(t, err, "unknown spectral format")
}

func TestBatchYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warm.csv", lampCSV)
	writeFile(t, dir, "cool.csv", "380,2\n450,3\n600,1\n780,0.2\n")
	writeFile(t, dir, "notes.csv", "nothing,here\n")

	stdout, _, err := run(t, "batch", dir, "-o", "yaml")
	require.NoError(t, err)

	var report batchReport
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Records, 2)
	assert.Equal(t, "cool", report.Records[0].Name)
	assert.Equal(t, "warm", report.Records[1].Name)
	assert.Equal(t, 2, report.Summary.Count)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], "no usable spectral samples")
}

func TestBatchText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warm.csv", lampCSV)

	stdout, _, err := run(t, "batch", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Summary (1 distributions)")
}

func TestBatchWithNothingImported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.csv", "nothing,here\n")

	_, _, err := run(t, "batch", dir)
	assert.True(t, errors.Is(err, spectrum.ErrEmptyDistribution))
}

func TestCurves(t *testing.T) {
	stdout, _, err := run(t, "curves", "-o", "json")
	require.NoError(t, err)

	var curves []curveInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &curves))

	keys := make([]string, len(curves))
	for i, c := range curves {
		keys[i] = c.Key
		assert.Equal(t, "360-780 nm", c.Range)
	}
	assert.Contains(t, keys, "Melanopic")
	assert.Contains(t, keys, "Photopic")
	assert.Contains(t, keys, "S Cone")
}

func TestRValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "meter.txt", vendorDump())

	stdout, _, err := run(t, "rvalues", path, "-o", "json")
	require.NoError(t, err)

	var values []parser.RValue
	require.NoError(t, json.Unmarshal([]byte(stdout), &values))
	require.Len(t, values, 15)
	assert.Equal(t, "R1", values[0].Name)
	assert.Equal(t, float64(80+parser.RValueFirstRow), values[0].Value)
}

func TestMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lamp.csv", lampCSV)
	textfile := filepath.Join(dir, "spectra.prom")

	_, _, err := run(t, "analyze", path, "--metrics-textfile", textfile)
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `spectra_import_files_total{format="generic"} 1`)
	assert.Contains(t, string(data), `spectra_reference_loads_total{result="ok"} 1`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lamp.csv", lampCSV)

	good := writeFile(t, dir, "spectra.yaml", "metrics:\n  melanopic_ratio_factor: 2.436\n")
	stdout, _, err := run(t, "analyze", path, "--config", good, "-o", "json")
	require.NoError(t, err)
	var rec photometrics.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &rec))
	// both values are rounded to 2 decimals before comparison
	assert.InDelta(t, 2.436*rec.MelanopicPhotopicRatio, rec.MelanopicRatio, 0.02)

	bad := writeFile(t, dir, "bad.yaml", "shape:\n  interval: 0\n")
	_, _, err = run(t, "analyze", path, "--config", bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	assert.Equal(t, exitConfig, exitCode(err))
	assert.True(t, strings.HasPrefix(describeError(err), "configuration error"))
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing file", fmt.Errorf("open: %w", os.ErrNotExist), exitBadInput},
		{"format", &parser.RowError{Line: 1, Err: errors.New("bad")}, exitBadInput},
		{"degenerate", photometrics.ErrDegenerateResponse, exitBadInput},
		{"config", config.ErrLoadConfig, exitConfig},
		{"other", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestDescribeErrorIsDistinctPerKind(t *testing.T) {
	seen := make(map[string]bool)
	for _, msg := range kindMessages {
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
	assert.True(t, strings.HasPrefix(describeError(errors.New("boom")), "error: "))
}
