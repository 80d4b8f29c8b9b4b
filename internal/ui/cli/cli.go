package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rapidscore/internal/shared/version"
	"rapidscore/internal/ui/report"
)

type cliOptions struct {
	configPath       string
	includeNoStepIn  bool
	firstVariantOnly bool
	verbose          bool

	format       string
	out          string
	history      bool
	ui           bool
	watch        bool
	metricsAddr  string
	otlpEndpoint string
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	cmd := newRootCmd(streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}, coreAnalysisFactory{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		return 1
	}
	return 0
}

func newRootCmd(std streams, factory analysisFactory) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "rapidscore [folder]",
		Short: "Code quality scores for ABB RAPID robot programs",
		Long: `rapidscore scans a folder of RAPID modules (.mod .prg .sys .cfg), builds the
procedure call graph and scores every file for complexity, comment health,
naming, dead code and unused variables.

Without a folder argument the folder is asked for interactively.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, std, *opts, args, factory)
		},
	}
	root.SetIn(std.in)
	root.SetOut(std.out)
	root.SetErr(std.err)
	root.SetVersionTemplate("rapidscore v{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to rapidscore.toml (default: ./rapidscore.toml or ./data/config/rapidscore.toml)")
	pf.BoolVar(&opts.includeNoStepIn, "include-nostepin", false, "Analyze modules flagged NOSTEPIN")
	pf.BoolVar(&opts.firstVariantOnly, "first-variant-only", false, "Resolve CallByVar to the first matching procedure only")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	f := root.Flags()
	f.StringVarP(&opts.format, "format", "f", report.FormatText, fmt.Sprintf("Output format %v", report.Formats))
	f.StringVarP(&opts.out, "out", "o", "", "Write the formatted result to this file instead of stdout")
	f.BoolVar(&opts.history, "history", false, "Record a snapshot of the run in the history database")
	f.BoolVar(&opts.ui, "ui", false, "Browse the result in the terminal UI")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Re-analyze whenever a RAPID file changes")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	f.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "Export traces over OTLP/gRPC to this endpoint")

	root.AddCommand(
		newVersionCmd(std),
		newTreeCmd(std, opts, factory),
		newWaitTimesCmd(std, opts, factory),
		newDetailsCmd(std, opts, factory),
		newHistoryCmd(std, opts, factory),
		newLexiconCmd(std, opts),
	)
	return root
}

func newVersionCmd(std streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(std.out, "rapidscore v%s\n", version.Version)
		},
	}
}
