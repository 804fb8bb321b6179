package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/kernel"
	"github.com/gogpu/brep/pipeline"
	"github.com/gogpu/brep/taxonomy"
)

// options holds the flags shared by all commands.
type options struct {
	precision   float64
	logLevel    string
	logFormat   string
	workers     int
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ifcbrep",
		Short: "Convert IFC geometry descriptions into boundary representations",
		Long: `ifcbrep reads taxonomy documents (YAML) describing extrusions, faces,
shells and loops, converts them into solid models and writes them as mesh
files or plan view previews.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts)
		},
	}

	f := cmd.PersistentFlags()
	f.Float64Var(&opts.precision, "precision", brep.DefaultPrecision, "linear tolerance in model units")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	f.IntVar(&opts.workers, "workers", 0, "conversion goroutines (0 = GOMAXPROCS)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus metrics to this file after the run")

	cmd.AddCommand(
		newConvertCmd(opts),
		newPreviewCmd(opts),
		newInspectCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func setupLogging(w io.Writer, opts *options) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", opts.logLevel)
	}
	ho := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch opts.logFormat {
	case "text":
		h = slog.NewTextHandler(w, ho)
	case "json":
		h = slog.NewJSONHandler(w, ho)
	default:
		return fmt.Errorf("invalid --log-format %q", opts.logFormat)
	}
	brep.SetLogger(slog.New(h))
	return nil
}

// loadItems decodes the documents named by args; no argument or "-"
// reads standard input.
func loadItems(cmd *cobra.Command, args []string) ([]taxonomy.Item, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	var items []taxonomy.Item
	for _, name := range args {
		var r io.Reader
		if name == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(name)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		its, err := taxonomy.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		items = append(items, its...)
	}
	if len(items) == 0 {
		return nil, errors.New("no items in input")
	}
	return items, nil
}

// convert runs the items through a pipeline and returns the successful
// results in input order. Failed items are reported on stderr.
func convert(cmd *cobra.Command, opts *options, items []taxonomy.Item) ([]pipeline.Result, []kernel.ConversionResult, error) {
	reg := prometheus.NewRegistry()
	k := kernel.New(kernel.WithPrecision(opts.precision))
	r, err := pipeline.New(k, pipeline.WithWorkers(opts.workers), pipeline.WithRegistry(reg))
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	out, err := r.Run(cmd.Context(), items)
	if err != nil {
		return nil, nil, err
	}

	var results []kernel.ConversionResult
	for i, res := range out {
		if res.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "item %d (%s): %v\n", i, label(res.Item), res.Err)
			continue
		}
		results = append(results, res.Result)
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return nil, nil, fmt.Errorf("write metrics: %w", err)
		}
	}
	return out, results, nil
}

func label(it taxonomy.Item) string {
	if it == nil {
		return "<nil>"
	}
	if id := it.Instance(); id != "" {
		return it.Kind().String() + " " + id
	}
	return it.Kind().String()
}

// create opens name for writing; "-" is standard output.
func create(cmd *cobra.Command, name string) (io.Writer, func() error, error) {
	if name == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
