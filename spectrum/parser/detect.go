package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Detect classifies a spectral file from its first lines. A tab-delimited
// first line whose first field mentions "model" is a photometer dump; a first
// (or, after a header, second) line of two numeric comma fields is generic
// CSV. Anything else falls back to Generic.
func Detect(r io.Reader) (Format, error) {
	scanner := bufio.NewScanner(r)

	first, ok := nextLine(scanner)
	if !ok {
		if err := scanner.Err(); err != nil {
			return Generic, fmt.Errorf("failed to read spectral data: %w", err)
		}
		return Generic, nil
	}
	first = strings.TrimPrefix(first, string(utf8BOM))

	if strings.Contains(first, "\t") {
		fields := strings.Split(first, "\t")
		if len(fields) >= 2 && strings.Contains(strings.ToLower(fields[0]), "model") {
			return VendorTab, nil
		}
	}

	if numericPair(first) {
		return Generic, nil
	}

	if strings.Contains(first, ",") {
		if second, ok := nextLine(scanner); ok && numericPair(second) {
			return Generic, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return Generic, fmt.Errorf("failed to read spectral data: %w", err)
	}
	return Generic, nil
}

// DetectBytes runs Detect over an in-memory file
func DetectBytes(data []byte) (Format, error) {
	return Detect(bytes.NewReader(data))
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func numericPair(line string) bool {
	if !strings.Contains(line, ",") {
		return false
	}
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return false
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err != nil {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	return err == nil
}
