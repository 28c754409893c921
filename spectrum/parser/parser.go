// Package parser turns raw spectral files into wavelength -> intensity
// samples. It understands plain two-column CSV and the tab-delimited dumps
// written by handheld spectrophotometers.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Format identifies the layout of a spectral file
type Format string

const (
	// Auto asks the caller to run Detect before parsing
	Auto Format = "auto"
	// Generic is headerless "wavelength,intensity" CSV
	Generic Format = "generic"
	// VendorTab is a tab-delimited photometer dump with a fixed header block
	VendorTab Format = "vendor-tab"
)

// ParseFormat maps a user-supplied name onto a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Auto, nil
	case "generic", "csv", "none":
		return Generic, nil
	case "vendor-tab", "vendor", "uprtek":
		return VendorTab, nil
	default:
		return "", fmt.Errorf("unknown spectral format %q", name)
	}
}

// Mode selects how malformed rows are treated
type Mode int

const (
	// Strict fails the whole parse on the first malformed row
	Strict Mode = iota
	// SkipInvalid drops malformed rows and keeps going
	SkipInvalid
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case SkipInvalid:
		return "skip-invalid"
	default:
		return "unknown"
	}
}

// Stats summarizes one parse
type Stats struct {
	Format  Format
	Rows    int
	Samples int
	Skipped int
}

// Parse reads samples from r in the given format. Auto is not accepted here;
// resolve it with Detect first.
func Parse(r io.Reader, format Format, mode Mode) (map[int]float64, error) {
	samples, _, err := ParseWithStats(r, format, mode)
	return samples, err
}

// ParseWithStats is Parse that also reports row counts
func ParseWithStats(r io.Reader, format Format, mode Mode) (map[int]float64, Stats, error) {
	switch format {
	case Generic:
		return parseGeneric(r, mode)
	case VendorTab:
		return parseVendorTab(r, mode)
	case Auto:
		return nil, Stats{Format: format}, fmt.Errorf("format must be detected before parsing")
	default:
		return nil, Stats{Format: format}, fmt.Errorf("unsupported spectral format %q", format)
	}
}

func parseGeneric(r io.Reader, mode Mode) (map[int]float64, Stats, error) {
	stats := Stats{Format: Generic}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read spectral data: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	samples := make(map[int]float64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			if mode == Strict {
				return nil, stats, &RowError{Line: line, Err: err}
			}
			stats.Skipped++
			continue
		}

		stats.Rows++
		line, _ := reader.FieldPos(0)
		wavelength, intensity, err := parseGenericRecord(record)
		if err != nil {
			if mode == Strict {
				return nil, stats, &RowError{Line: line, Err: err}
			}
			stats.Skipped++
			continue
		}
		samples[wavelength] = intensity
	}

	stats.Samples = len(samples)
	return samples, stats, nil
}

func parseGenericRecord(record []string) (int, float64, error) {
	if len(record) < 2 {
		return 0, 0, fmt.Errorf("expected wavelength,intensity but got %d field(s)", len(record))
	}

	wavelength, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid wavelength %q", record[0])
	}

	intensity, err := parseIntensity(record[1])
	if err != nil {
		return 0, 0, err
	}

	return wavelength, intensity, nil
}

func parseIntensity(field string) (float64, error) {
	intensity, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return 0, fmt.Errorf("invalid intensity %q", field)
	}
	return intensity, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
