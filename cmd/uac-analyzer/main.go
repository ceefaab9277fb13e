// Command uac-analyzer analyzes USB Audio Class descriptors from `lsusb -v`
// output: the parsed device model, its signal topology, and the isochronous
// bandwidth of each streaming alternate.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	uac "github.com/ford-prefect/uac-analyzer"
	"github.com/ford-prefect/uac-analyzer/internal/config"
	"github.com/ford-prefect/uac-analyzer/internal/logging"
	"github.com/ford-prefect/uac-analyzer/internal/watch"
	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
	"github.com/ford-prefect/uac-analyzer/pkg/render"
)

// Options for the CLI, with toml and env mappings for the config layer.
type Options struct {
	Config string

	Format          string `toml:"output.format" env:"FORMAT"`
	Quiet           bool   `toml:"output.quiet" env:"QUIET"`
	UACVersion      string `toml:"analysis.uac_version" env:"UAC_VERSION"`
	Watch           bool   `toml:"watch.enabled" env:"WATCH"`
	WatchDebounceMs int    `toml:"watch.debounce_ms" env:"WATCH_DEBOUNCE_MS"`

	LoggingLevel  string `toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `toml:"logging.format" env:"LOGGING_FORMAT"`
}

func main() {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "uac-analyzer [dump file]",
		Short: "Analyze USB Audio Class descriptors from lsusb -v output",
		Long: "uac-analyzer parses a captured `lsusb -v` dump, builds the audio\n" +
			"function's signal topology, and computes per-alternate isochronous\n" +
			"bandwidth. Reads from stdin when no file is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := config.Load(opts, cmd); err != nil {
				return err
			}
			logCfg := config.LoadLoggingConfig(opts.Config)
			logCfg.Level = opts.LoggingLevel
			logCfg.Format = opts.LoggingFormat
			logging.Initialize(logCfg)
			return run(opts, args)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.Config, "config", "c", "", "path to TOML configuration file")
	flags.StringVarP(&opts.Format, "format", "f", "full",
		"output format: full, report, topology, bandwidth, summary")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress warnings")
	flags.StringVar(&opts.UACVersion, "uac-version", "",
		"force UAC generation (1.0, 2.0, 3.0) instead of autodetecting")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "re-analyze whenever the dump file changes")
	flags.IntVar(&opts.WatchDebounceMs, "watch-debounce-ms", 500, "debounce for watch mode")
	flags.StringVar(&opts.LoggingLevel, "logging-level", "info", "logging level (debug, info, warn, error)")
	flags.StringVar(&opts.LoggingFormat, "logging-format", "text", "logging format (text, json)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *Options, args []string) error {
	uacOpts, err := analysisOptions(opts)
	if err != nil {
		return err
	}

	if opts.Watch {
		if len(args) == 0 {
			return fmt.Errorf("--watch needs a dump file argument")
		}
		return watchAndAnalyze(opts, args[0], uacOpts)
	}

	var in io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	analysis, err := uac.Analyze(in, uacOpts)
	if err != nil {
		return err
	}
	emit(opts, analysis)
	return nil
}

func analysisOptions(opts *Options) (uac.Options, error) {
	switch opts.UACVersion {
	case "":
		return uac.Options{}, nil
	case "1", "1.0":
		return uac.Options{ForceVersion: descriptors.UACVersion1}, nil
	case "2", "2.0":
		return uac.Options{ForceVersion: descriptors.UACVersion2}, nil
	case "3", "3.0":
		return uac.Options{ForceVersion: descriptors.UACVersion3}, nil
	default:
		return uac.Options{}, fmt.Errorf("unknown UAC version %q", opts.UACVersion)
	}
}

func emit(opts *Options, analysis *uac.Analysis) {
	switch opts.Format {
	case "report":
		render.Device(os.Stdout, analysis.Device)
	case "topology":
		render.Topology(os.Stdout, analysis.Graph)
	case "bandwidth":
		render.Bandwidth(os.Stdout, analysis.Bandwidth)
	case "summary":
		render.Summary(os.Stdout, analysis.Device, analysis.Graph, analysis.Bandwidth)
	default:
		render.Full(os.Stdout, analysis.Device, analysis.Graph, analysis.Bandwidth)
	}
	if opts.Quiet {
		return
	}
	for _, w := range analysis.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func watchAndAnalyze(opts *Options, path string, uacOpts uac.Options) error {
	logger := logging.GetLogger("watch")

	loader := func(p string) (*uac.Analysis, error) {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return uac.Analyze(f, uacOpts)
	}

	// First pass before watching, so a valid file always produces output.
	analysis, err := loader(path)
	if err != nil {
		return err
	}
	emit(opts, analysis)

	w := watch.NewFileWatcher(path, loader, logger,
		watch.WithDebounce[*uac.Analysis](time.Duration(opts.WatchDebounceMs)*time.Millisecond),
		watch.WithErrorHandler[*uac.Analysis](func(err error) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}))
	w.OnReload(func(a *uac.Analysis) {
		fmt.Println()
		emit(opts, a)
	})
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
