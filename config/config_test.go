package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/spectra/config"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.DefaultConfig()

		Convey("It validates and matches the canonical engine settings", func() {
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.Shape, ShouldResemble, spectrum.DefaultShape)
			So(cfg.Metrics.MelanopicRatioFactor, ShouldEqual, 1.218)
			So(cfg.Import.Weight, ShouldEqual, 1.0)
		})

		Convey("Its import options auto-detect the format", func() {
			opts := cfg.ImportOptions()
			So(opts.Format, ShouldEqual, parser.Auto)
			So(opts.Mode, ShouldEqual, parser.Strict)
			So(opts.Shape, ShouldResemble, spectrum.DefaultShape)
		})

		Convey("It uses the bundled reference table", func() {
			So(cfg.RegistryOptions(), ShouldHaveLength, 1)
			cfg.ReferencePath = "/tmp/curves.csv"
			So(cfg.RegistryOptions(), ShouldHaveLength, 2)
			So(cfg.CalculatorOptions(), ShouldHaveLength, 1)
		})
	})

	Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"inverted shape":  func(c *config.Config) { c.Shape = spectrum.Shape{Min: 780, Max: 360, Interval: 1} },
			"zero interval":   func(c *config.Config) { c.Shape.Interval = 0 },
			"zero weight":     func(c *config.Config) { c.Import.Weight = 0 },
			"negative factor": func(c *config.Config) { c.Metrics.MelanopicRatioFactor = -1 },
			"unknown format":  func(c *config.Config) { c.Import.Format = "xlsx" },
			"unknown level":   func(c *config.Config) { c.LogLevel = "chatty" },
		}
		for name, mutate := range cases {
			Convey("Validate rejects "+name, func() {
				cfg := config.DefaultConfig()
				mutate(cfg)
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		}
	})
}

func TestLoad(t *testing.T) {
	Convey("Given no file and no environment", t, func() {
		cfg, err := config.Load("")
		So(err, ShouldBeNil)
		So(cfg, ShouldResemble, config.DefaultConfig())
	})

	Convey("Given a YAML file", t, func() {
		path := writeConfig(t, "spectra.yaml", `
log_level: debug
shape:
  min: 380
  max: 780
import:
  format: vendor-tab
  normalize: true
  skip_invalid: true
`)
		cfg, err := config.Load(path)
		So(err, ShouldBeNil)

		Convey("Then file values override defaults", func() {
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.Shape.Min, ShouldEqual, 380)
			So(cfg.Import.Normalize, ShouldBeTrue)
			So(cfg.ImportOptions().Mode, ShouldEqual, parser.SkipInvalid)
			So(cfg.ImportOptions().Format, ShouldEqual, parser.VendorTab)
		})

		Convey("And unset keys keep their defaults", func() {
			So(cfg.Shape.Interval, ShouldEqual, 1)
			So(cfg.Import.Weight, ShouldEqual, 1.0)
			So(cfg.Metrics.MelanopicRatioFactor, ShouldEqual, 1.218)
		})
	})

	Convey("Given a TOML file", t, func() {
		path := writeConfig(t, "spectra.toml", `
reference_path = "/data/curves.csv"

[metrics]
melanopic_ratio_factor = 1.5

[telemetry]
textfile = "/var/lib/node_exporter/spectra.prom"
`)
		cfg, err := config.Load(path)
		So(err, ShouldBeNil)
		So(cfg.ReferencePath, ShouldEqual, "/data/curves.csv")
		So(cfg.Metrics.MelanopicRatioFactor, ShouldEqual, 1.5)
		So(cfg.Telemetry.Textfile, ShouldEqual, "/var/lib/node_exporter/spectra.prom")
	})

	Convey("Given a file that cannot be used", t, func() {
		_, err := config.Load(writeConfig(t, "spectra.ini", "x=1"))
		So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)

		_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)

		_, err = config.Load(writeConfig(t, "bad.yaml", "import:\n  weight: -1\n"))
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

// TestLoadEnvironment is kept apart from TestLoad: t.Setenv lasts until the
// test function returns, so the overrides would reach every later Convey.
func TestLoadEnvironment(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("SPECTRA_LOG_LEVEL", "warn")
		t.Setenv("SPECTRA_SHAPE__MAX", "830")
		t.Setenv("SPECTRA_IMPORT__WEIGHT", "2.5")

		path := writeConfig(t, "spectra.yml", "log_level: debug\n")
		cfg, err := config.Load(path)
		So(err, ShouldBeNil)

		Convey("Then they win over the file", func() {
			So(cfg.LogLevel, ShouldEqual, "warn")
			So(cfg.Shape.Max, ShouldEqual, 830)
			So(cfg.Import.Weight, ShouldEqual, 2.5)
		})
	})

	Convey("Given an environment override that is invalid", t, func() {
		t.Setenv("SPECTRA_IMPORT__WEIGHT", "-1")

		_, err := config.Load("")
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestTOMLParser(t *testing.T) {
	Convey("The TOML parser round-trips nested tables", t, func() {
		p := config.TOMLParser()
		out, err := p.Unmarshal([]byte("[shape]\nmin = 400\n"))
		So(err, ShouldBeNil)
		So(out["shape"], ShouldResemble, map[string]any{"min": int64(400)})

		b, err := p.Marshal(out)
		So(err, ShouldBeNil)
		So(string(b), ShouldContainSubstring, "min = 400")
	})
}
