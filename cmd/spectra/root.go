package main

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/spectra/config"
	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/response"
	"github.com/RyanBlaney/spectra/telemetry"
)

// app carries what every subcommand needs once the root has loaded the
// configuration.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath      string
	logLevel        string
	metricsTextfile string

	runID      string
	cfg        *config.Config
	logger     logging.Logger
	collector  *telemetry.Collector
	registry   *reference.Registry
	calculator *photometrics.Calculator
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "spectra",
		Short:         "Spectral power distribution analysis",
		Long:          "Spectra imports measured light spectra and reports melanopic, photopic and scotopic responses and their ratios.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.finish()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newCurvesCmd(a),
		newRValuesCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.metricsTextfile != "" {
		cfg.Telemetry.Textfile = a.metricsTextfile
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.runID = uuid.NewString()
	a.cfg = cfg

	base := logging.NewLogger(a.stderr, a.stderr, colorize(a.stderr))
	base.SetLevel(level)
	a.logger = base.WithFields(logging.Fields{"run_id": a.runID})
	logging.SetGlobalLogger(a.logger)

	a.collector = telemetry.NewCollector()

	registryOpts := append(cfg.RegistryOptions(),
		reference.WithLogger(a.logger),
		reference.WithObserver(a.collector),
	)
	a.registry = reference.NewRegistry(registryOpts...)

	calcOpts := append(cfg.CalculatorOptions(),
		photometrics.WithLogger(a.logger),
		photometrics.WithObserver(a.collector),
	)
	a.calculator = photometrics.NewCalculator(response.NewEngine(a.registry), calcOpts...)

	a.logger.Debug("Configuration loaded", logging.Fields{
		"config": a.configPath,
		"shape":  cfg.Shape.String(),
	})
	return nil
}

// finish writes the telemetry textfile. It only runs after a successful
// command; failed runs are reported through main.
func (a *app) finish() error {
	if a.cfg == nil || a.cfg.Telemetry.Textfile == "" {
		return nil
	}
	if err := a.collector.WriteTextfile(a.cfg.Telemetry.Textfile); err != nil {
		return err
	}
	a.logger.Debug("Wrote metrics textfile", logging.Fields{"path": a.cfg.Telemetry.Textfile})
	return nil
}

func colorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
