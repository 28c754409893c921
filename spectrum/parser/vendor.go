package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Layout of the tab-delimited export written by UPRtek handheld meters
// (tested against CV600 files, which carry an .xls extension but are plain
// text).
const (
	// VendorHeaderRows is the number of metadata rows before the spectrum
	VendorHeaderRows = 40
	// VendorWavelengthDigits is how much of the wavelength field is numeric;
	// the meter suffixes it with units.
	VendorWavelengthDigits = 3
	// RValueFirstRow and RValueLastRow bound the color rendering block
	// (0-based, inclusive) inside the header.
	RValueFirstRow = 19
	RValueLastRow  = 33
)

const vendorDelimiter = "\t"

func parseVendorTab(r io.Reader, mode Mode) (map[int]float64, Stats, error) {
	stats := Stats{Format: VendorTab}
	samples := make(map[int]float64)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if line <= VendorHeaderRows {
			continue
		}

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		stats.Rows++
		wavelength, intensity, err := parseVendorRow(strings.Split(text, vendorDelimiter))
		if err != nil {
			if mode == Strict {
				return nil, stats, &RowError{Line: line, Err: err}
			}
			stats.Skipped++
			continue
		}
		samples[wavelength] = intensity
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read photometer data: %w", err)
	}

	if line < VendorHeaderRows {
		return nil, stats, fmt.Errorf("%w: photometer header truncated after %d of %d rows", ErrFormat, line, VendorHeaderRows)
	}

	stats.Samples = len(samples)
	return samples, stats, nil
}

func parseVendorRow(fields []string) (int, float64, error) {
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("expected wavelength and intensity columns, got %d", len(fields))
	}

	digits := fields[0]
	if len(digits) > VendorWavelengthDigits {
		digits = digits[:VendorWavelengthDigits]
	}
	wavelength, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid wavelength %q", fields[0])
	}

	intensity, err := parseIntensity(fields[1])
	if err != nil {
		return 0, 0, err
	}

	return wavelength, intensity, nil
}

// RValue is one vendor-reported color rendering index (R1..R15). These are
// passed through as the meter computed them.
type RValue struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// ParseRValues reads the color rendering block from a vendor-tab dump. Any
// malformed row in the block fails the parse.
func ParseRValues(r io.Reader) ([]RValue, error) {
	scanner := bufio.NewScanner(r)
	values := make([]RValue, 0, RValueLastRow-RValueFirstRow+1)

	row := -1
	for scanner.Scan() {
		row++
		if row < RValueFirstRow {
			continue
		}
		if row > RValueLastRow {
			break
		}

		fields := strings.Split(scanner.Text(), vendorDelimiter)
		if len(fields) < 2 {
			return nil, &RowError{Line: row + 1, Err: fmt.Errorf("expected name and value columns")}
		}
		value, err := parseIntensity(fields[1])
		if err != nil {
			return nil, &RowError{Line: row + 1, Err: err}
		}
		values = append(values, RValue{Name: strings.TrimSpace(fields[0]), Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read photometer data: %w", err)
	}

	if row < RValueLastRow {
		return nil, fmt.Errorf("%w: color rendering block truncated at row %d", ErrFormat, row+1)
	}

	return values, nil
}
