// Package reference serves the standard human response curves (melanopic,
// photopic, scotopic and the three cone fundamentals) from a bundled table.
package reference

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
)

//go:embed data/reference_curves.csv
var embeddedTable []byte

// Table layout: name, description, two informational columns, then one
// column per wavelength.
const (
	nameColumn        = 0
	descriptionColumn = 1
	firstSampleColumn = 4
)

// Entry is one cached reference curve
type Entry struct {
	Key         Key
	Description string
	// Curve is normalized to peak 1.0 and reshaped onto the registry shape
	Curve *spectrum.Distribution
}

// Source opens the reference table
type Source func() (io.ReadCloser, error)

// EmbeddedSource reads the table compiled into the binary
func EmbeddedSource() Source {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(embeddedTable)), nil
	}
}

// FileSource reads the table from disk
func FileSource(path string) Source {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// LoadObserver is told about every table load
type LoadObserver interface {
	ObserveRegistryLoad(curves int, elapsed time.Duration, err error)
}

// Option configures a Registry
type Option func(*Registry)

// WithSource replaces the embedded table
func WithSource(source Source) Option {
	return func(r *Registry) {
		r.source = source
	}
}

// WithShape reshapes every curve onto shape instead of spectrum.DefaultShape
func WithShape(shape spectrum.Shape) Option {
	return func(r *Registry) {
		r.shape = shape
	}
}

// WithLogger sets the registry's logger
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithObserver reports table loads to observer
func WithObserver(observer LoadObserver) Option {
	return func(r *Registry) {
		r.observer = observer
	}
}

// Registry lazily loads the reference table on first lookup and keeps every
// row for the life of the process. The first lookup of any key parses the
// whole table exactly once, even when many goroutines race on it; later
// lookups are lock-free map reads.
type Registry struct {
	source   Source
	shape    spectrum.Shape
	logger   logging.Logger
	observer LoadObserver

	once    sync.Once
	loads   atomic.Int64
	entries map[Key]*Entry
	order   []Key
	err     error
}

// NewRegistry creates a registry backed by the embedded table unless
// WithSource says otherwise. Nothing is read until the first lookup.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		source: EmbeddedSource(),
		shape:  spectrum.DefaultShape,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrGlobal(r.logger).WithFields(logging.Fields{
		"component": "reference_registry",
	})
	return r
}

// Get returns the entry for key
func (r *Registry) Get(key Key) (*Entry, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	entry, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, key)
	}
	return entry, nil
}

// Curve returns the reshaped, normalized curve for key
func (r *Registry) Curve(key Key) (*spectrum.Distribution, error) {
	entry, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	return entry.Curve, nil
}

// Keys returns every row of the table in file order
func (r *Registry) Keys() ([]Key, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]Key, len(r.order))
	copy(out, r.order)
	return out, nil
}

// Shape returns the grid reference curves are reshaped onto
func (r *Registry) Shape() spectrum.Shape {
	return r.shape
}

// Loads reports how many times the table has been parsed
func (r *Registry) Loads() int64 {
	return r.loads.Load()
}

// ensureLoaded parses the table once. A failed load is not retried: the table
// is static, so a second attempt would fail the same way.
func (r *Registry) ensureLoaded() error {
	r.once.Do(func() {
		start := time.Now()
		r.loads.Add(1)
		r.entries, r.order, r.err = r.load()

		elapsed := time.Since(start)
		if r.observer != nil {
			r.observer.ObserveRegistryLoad(len(r.order), elapsed, r.err)
		}
		if r.err != nil {
			r.logger.Error(r.err, "Failed to load reference curves")
			return
		}
		r.logger.Debug("Loaded reference curves", logging.Fields{
			"curves":  len(r.order),
			"shape":   r.shape.String(),
			"elapsed": elapsed,
		})
	})
	return r.err
}

func (r *Registry) load() (map[Key]*Entry, []Key, error) {
	rc, err := r.source()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reference table header: %v", parser.ErrFormat, err)
	}
	if len(header) <= firstSampleColumn {
		return nil, nil, fmt.Errorf("%w: reference table has no wavelength columns", parser.ErrFormat)
	}

	wavelengths := make([]int, 0, len(header)-firstSampleColumn)
	for _, cell := range header[firstSampleColumn:] {
		w, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reference wavelength column %q", parser.ErrFormat, cell)
		}
		wavelengths = append(wavelengths, w)
	}

	entries := make(map[Key]*Entry)
	var order []Key
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reference table: %v", parser.ErrFormat, err)
		}

		entry, err := r.buildEntry(record, wavelengths)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := entries[entry.Key]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate reference curve %q", parser.ErrFormat, entry.Key)
		}
		entries[entry.Key] = entry
		order = append(order, entry.Key)
	}

	return entries, order, nil
}

// buildEntry turns one table row into a curve. Empty cells mean the curve
// was not sampled at that wavelength; they are left out rather than read as
// zero so interpolation bridges them.
func (r *Registry) buildEntry(record []string, wavelengths []int) (*Entry, error) {
	if len(record) <= descriptionColumn {
		return nil, fmt.Errorf("%w: reference row %v has no description", parser.ErrFormat, record)
	}
	key := Key(strings.TrimSpace(record[nameColumn]))

	samples := make(map[int]float64)
	if len(record) > firstSampleColumn {
		for i, cell := range record[firstSampleColumn:] {
			if i >= len(wavelengths) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: reference curve %q at %d nm: %q", parser.ErrFormat, key, wavelengths[i], cell)
			}
			samples[wavelengths[i]] = v
		}
	}

	spd, err := spectrum.New(string(key), samples)
	if err != nil {
		return nil, fmt.Errorf("reference curve %q: %w", key, err)
	}
	if spd, err = spd.Normalize(); err != nil {
		return nil, fmt.Errorf("reference curve %q: %w", key, err)
	}
	if spd, err = spd.Reshape(r.shape); err != nil {
		return nil, fmt.Errorf("reference curve %q: %w", key, err)
	}

	return &Entry{
		Key:         key,
		Description: strings.TrimSpace(record[descriptionColumn]),
		Curve:       spd,
	}, nil
}
