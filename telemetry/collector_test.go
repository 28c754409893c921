package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/response"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveImport(t *testing.T) {
	c := NewCollector()

	c.ObserveImport(parser.Stats{Format: parser.Generic, Rows: 5, Samples: 4, Skipped: 1})
	c.ObserveImport(parser.Stats{Format: parser.Generic, Rows: 3, Samples: 3})
	c.ObserveImport(parser.Stats{Format: parser.VendorTab, Rows: 401, Samples: 401})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.imports.WithLabelValues("generic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.imports.WithLabelValues("vendor-tab")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.samples.WithLabelValues("generic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skippedRows.WithLabelValues("generic")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.skippedRows.WithLabelValues("vendor-tab")))
}

func TestObserveRegistryLoad(t *testing.T) {
	c := NewCollector()

	c.ObserveRegistryLoad(8, 3*time.Millisecond, nil)
	c.ObserveRegistryLoad(0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.registryLoads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.registryLoads.WithLabelValues("error")))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.registryCurves))
	assert.Equal(t, 1, testutil.CollectAndCount(c.loadDuration))
}

func TestRegistryLoadIsObserved(t *testing.T) {
	c := NewCollector()
	registry := reference.NewRegistry(reference.WithObserver(c))

	_, err := registry.Get(reference.Photopic)
	require.NoError(t, err)
	_, err = registry.Get(reference.Melanopic)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.registryLoads.WithLabelValues("ok")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(c.registryCurves), 6.0)
}

func TestObserveMetricFailure(t *testing.T) {
	c := NewCollector()

	c.ObserveMetricFailure(photometrics.MetricMelanopicRatio, fmt.Errorf("wrapped: %w", photometrics.ErrDegenerateResponse))
	c.ObserveMetricFailure(photometrics.MetricMelanopicRatio, photometrics.ErrDegenerateResponse)
	c.ObserveMetricFailure(photometrics.MetricSpectralGIndex, photometrics.ErrNotReshaped)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.metricFailures.WithLabelValues("melanopic_ratio", KindDegenerate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metricFailures.WithLabelValues("spectral_g_index", KindNotReshaped)))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&parser.RowError{Line: 3, Err: errors.New("bad")}, KindFormat},
		{fmt.Errorf("x: %w", spectrum.ErrEmptyDistribution), KindEmpty},
		{spectrum.ErrZeroPeak, KindZeroPeak},
		{spectrum.ErrInvalidValue, KindInvalidValue},
		{spectrum.ErrInvalidShape, KindInvalidShape},
		{fmt.Errorf("a: %w", response.ErrDisjointRange), KindDisjointRange},
		{reference.ErrUnknownCurve, KindUnknownCurve},
		{photometrics.ErrDegenerateResponse, KindDegenerate},
		{photometrics.ErrNotReshaped, KindNotReshaped},
		{errors.New("disk on fire"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestCustomNamespaceAndRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(WithNamespace("lab"), WithRegistry(registry))
	c.ObserveImport(parser.Stats{Format: parser.Generic, Samples: 1})

	assert.Same(t, registry, c.Registry())
	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "lab_import_files_total")
}

func TestWriteTextfile(t *testing.T) {
	c := NewCollector()
	c.ObserveImport(parser.Stats{Format: parser.Generic, Samples: 3})

	path := filepath.Join(t.TempDir(), "spectra.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `spectra_import_files_total{format="generic"} 1`)
	assert.Contains(t, string(data), `spectra_import_samples_total{format="generic"} 3`)
}
