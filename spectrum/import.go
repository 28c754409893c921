package spectrum

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/spectrum/parser"
)

// ImportObserver is notified after every successful parse
type ImportObserver interface {
	ObserveImport(stats parser.Stats)
}

// ImportOptions controls how raw samples become a canonical distribution
type ImportOptions struct {
	// Name overrides the distribution name; ImportFile defaults it to the
	// file name without extension.
	Name string
	// Format of the input; Auto runs parser.Detect.
	Format parser.Format
	// Mode selects strict or skip-invalid row handling for an explicit
	// Format. Auto-detected input is always parsed with parser.SkipInvalid,
	// since detection already looks past a header row.
	Mode parser.Mode
	// Normalize scales the samples to peak 1.0 before weighting.
	Normalize bool
	// Weight multiplies the samples after normalization. Zero means 1.0.
	Weight float64
	// Shape is the grid the result is reshaped onto. The zero Shape means
	// DefaultShape.
	Shape Shape

	Logger   logging.Logger
	Observer ImportObserver
}

// DefaultImportOptions returns strict, unweighted import onto DefaultShape
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		Format: parser.Auto,
		Mode:   parser.Strict,
		Weight: 1.0,
		Shape:  DefaultShape,
	}
}

func (o ImportOptions) weight() float64 {
	if o.Weight == 0 {
		return 1.0
	}
	return o.Weight
}

func (o ImportOptions) shape() Shape {
	if o.Shape == (Shape{}) {
		return DefaultShape
	}
	return o.Shape
}

// Import parses r and runs the canonical pipeline: normalize (optional),
// weight, reshape.
func Import(r io.Reader, opts ImportOptions) (*Distribution, error) {
	logger := logging.OrGlobal(opts.Logger).WithFields(logging.Fields{
		"component": "spectrum_import",
		"spd":       opts.Name,
	})

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read spectral data: %w", err)
	}

	format, mode := opts.Format, opts.Mode
	if format == parser.Auto || format == "" {
		format, err = parser.DetectBytes(data)
		if err != nil {
			return nil, err
		}
		mode = parser.SkipInvalid
		logger.Debug("Detected spectral format", logging.Fields{"format": format})
	}

	samples, stats, err := parser.ParseWithStats(bytes.NewReader(data), format, mode)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		logger.Warn("Skipped malformed rows", logging.Fields{
			"format":  format,
			"skipped": stats.Skipped,
			"rows":    stats.Rows,
		})
	}
	if opts.Observer != nil {
		opts.Observer.ObserveImport(stats)
	}

	return FromMap(opts.Name, samples, opts)
}

// FromMap runs the canonical pipeline over a literal wavelength -> value
// mapping, e.g. pasted data that never went through the parser.
func FromMap(name string, samples map[int]float64, opts ImportOptions) (*Distribution, error) {
	spd, err := New(name, samples)
	if err != nil {
		return nil, err
	}
	if spd.Len() == 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrEmptyDistribution)
	}

	if opts.Normalize {
		if spd, err = spd.Normalize(); err != nil {
			return nil, err
		}
	}
	spd = spd.Scale(opts.weight())

	reshaped, err := spd.Reshape(opts.shape())
	if err != nil {
		return nil, err
	}

	logging.OrGlobal(opts.Logger).Debug("Imported spectral distribution", logging.Fields{
		"component": "spectrum_import",
		"spd":       name,
		"samples":   spd.Len(),
		"shape":     opts.shape().String(),
		"normalize": opts.Normalize,
		"weight":    opts.weight(),
	})

	return reshaped, nil
}

// ImportFile opens path and imports it. Without an explicit name the
// distribution is named after the file.
func ImportFile(path string, opts ImportOptions) (*Distribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spectral file: %w", err)
	}
	defer f.Close()

	if opts.Name == "" {
		opts.Name = NameFromPath(path)
	}

	spd, err := Import(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", filepath.Base(path), err)
	}
	return spd, nil
}

// NameFromPath derives a distribution name from a file path
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ImportBatch imports every regular, non-hidden file at the top level of dir.
// Batch runs always normalize and skip malformed rows. A file that cannot be
// imported at all does not stop the batch; its error is returned joined with
// the others alongside whatever did import.
func ImportBatch(dir string, opts ImportOptions) (map[string]*Distribution, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch directory: %w", err)
	}

	opts.Normalize = true
	opts.Mode = parser.SkipInvalid
	opts.Name = ""

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	spds := make(map[string]*Distribution, len(names))
	var errs []error
	for _, name := range names {
		spd, err := ImportFile(filepath.Join(dir, name), opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		spds[spd.Name()] = spd
	}

	logging.OrGlobal(opts.Logger).Info("Imported spectral batch", logging.Fields{
		"component": "spectrum_import",
		"dir":       dir,
		"imported":  len(spds),
		"failed":    len(errs),
	})

	return spds, errors.Join(errs...)
}
