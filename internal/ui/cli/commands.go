// # internal/ui/cli/commands.go
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/errors"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/lexicon"
	"rapidscore/internal/engine/scoring"
	"rapidscore/internal/ui/report"
	"rapidscore/internal/ui/report/formats"
)

// analyzeOnce runs one analysis of the folder named by args.
func analyzeOnce(cmd *cobra.Command, std streams, opts cliOptions, args []string, factory analysisFactory) (*ports.AnalysisResult, error) {
	s, err := openSession(cmd, std, opts, args, factory, nil, false)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.service.Analyze(cmd.Context(), s.root)
}

func newTreeCmd(std streams, opts *cliOptions, factory analysisFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [folder]",
		Short: "Print the procedure call tree from MAIN",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := analyzeOnce(cmd, std, *opts, args, factory)
			if err != nil {
				return err
			}
			fmt.Fprintln(std.out, callTree(res))
			return nil
		},
	}
}

func callTree(res *ports.AnalysisResult) string {
	roots := graph.TreeRoots(res.Registry, res.CallGraph)
	trees := graph.CallTree(res.CallGraph, roots)
	return formats.CallTreeText(trees, len(res.Registry.EntryPoints()) > 0)
}

func newWaitTimesCmd(std streams, opts *cliOptions, factory analysisFactory) *cobra.Command {
	var radius int
	cmd := &cobra.Command{
		Use:   "waittimes [folder]",
		Short: "List every WaitTime call with surrounding lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if radius < 0 {
				return &exitError{code: 2, err: fmt.Errorf("--context must be >= 0")}
			}
			res, err := analyzeOnce(cmd, std, *opts, args, factory)
			if err != nil {
				return err
			}
			fmt.Fprint(std.out, formats.WaitTimeText(report.WaitTimeBlocks(res.Files, radius)))
			return nil
		},
	}
	cmd.Flags().IntVar(&radius, "context", report.WaitTimeRadius, "Lines of context on each side")
	return cmd
}

func newDetailsCmd(std streams, opts *cliOptions, factory analysisFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "details <folder> <file>",
		Short: "Print every metric of one analyzed file",
		Long:  "The file is matched by its path relative to the folder, or by base name when that is unique.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := analyzeOnce(cmd, std, *opts, args[:1], factory)
			if err != nil {
				return err
			}
			f, err := findFile(res, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(std.out, formats.FileDetails(f))
			return nil
		},
	}
}

func findFile(res *ports.AnalysisResult, name string) (scoring.FileScore, error) {
	want := filepath.ToSlash(filepath.Clean(name))
	var byBase []scoring.FileScore
	for _, f := range res.Files {
		rel, err := filepath.Rel(res.Root, f.Path)
		if err == nil && strings.EqualFold(filepath.ToSlash(rel), want) {
			return f, nil
		}
		if strings.EqualFold(filepath.Base(f.Path), want) {
			byBase = append(byBase, f)
		}
	}
	switch len(byBase) {
	case 1:
		return byBase[0], nil
	case 0:
		return scoring.FileScore{}, errors.New(errors.CodeNotFound, fmt.Sprintf("no analyzed file matches %q", name))
	default:
		return scoring.FileScore{}, errors.New(errors.CodeValidationError, fmt.Sprintf("%q matches %d files; use the relative path", name, len(byBase)))
	}
}

func newHistoryCmd(std streams, opts *cliOptions, factory analysisFactory) *cobra.Command {
	var since, window, format string
	cmd := &cobra.Command{
		Use:   "history [folder]",
		Short: "Show the score trend recorded by runs with --history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sinceTime, err := parseSince(since)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			windowDur, err := parseHistoryWindow(window)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			s, err := openSession(cmd, std, *opts, args, factory, func(cfg *config.Config) {
				cfg.History.Enabled = true
			}, false)
			if err != nil {
				return err
			}
			defer s.Close()

			trend, err := s.service.Trend(cmd.Context(), ports.HistoryTrendRequest{
				ProjectKey: s.root,
				Since:      sinceTime,
				Window:     windowDur,
			})
			if errors.IsCode(err, errors.CodeNotFound) {
				fmt.Fprintf(std.out, "No snapshots recorded for %s. Run rapidscore --history first.\n", s.root)
				return nil
			}
			if err != nil {
				return err
			}
			data, err := renderTrend(trend, format)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			_, err = std.out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Only snapshots at or after this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&window, "window", "24h", "Moving-average window")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format (text, tsv, json, yaml)")
	return cmd
}

func renderTrend(trend history.TrendReport, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", report.FormatText:
		return report.RenderTrendText(trend)
	case report.FormatTSV:
		return report.RenderTrendTSV(trend)
	case report.FormatJSON:
		return report.RenderTrendJSON(trend)
	case report.FormatYAML:
		return report.RenderTrendYAML(trend)
	default:
		return nil, fmt.Errorf("unknown history format %q", format)
	}
}

func newLexiconCmd(std streams, opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage the word lexicon used for naming scores",
	}

	var dbPath string
	importCmd := &cobra.Command{
		Use:   "import [wordlist]",
		Short: "Build the sqlite lexicon from a newline separated word list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLogs := configureLogging(false, opts.verbose, std.err)
			defer closeLogs()

			src := config.DefaultWordList
			if len(args) == 1 {
				src = args[0]
			}
			target, err := lexiconTarget(cmd, *opts, dbPath)
			if err != nil {
				return err
			}
			n, err := lexicon.ImportWordList(cmd.Context(), src, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(std.out, "Imported %d words into %s\n", n, target)
			fmt.Fprintln(std.out, "Set lexicon.backend = \"sqlite\" in rapidscore.toml to use it.")
			return nil
		},
	}
	importCmd.Flags().StringVar(&dbPath, "db", "", "Target database (default: lexicon path from config, or <database_dir>/lexicon.db)")
	cmd.AddCommand(importCmd)
	return cmd
}

// lexiconTarget picks the sqlite file an import writes: the flag, the
// configured sqlite lexicon path, or lexicon.db in the database directory.
func lexiconTarget(cmd *cobra.Command, opts cliOptions, flagPath string) (string, error) {
	if strings.TrimSpace(flagPath) != "" {
		return flagPath, nil
	}
	cwd, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	cfg, _, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		return "", &exitError{code: 2, err: fmt.Errorf("load config: %w", err)}
	}
	if cfg.Lexicon.Backend != config.BackendSQLite {
		cfg.Lexicon.Backend = config.BackendSQLite
		cfg.Lexicon.Path = ""
	}
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return "", err
	}
	return paths.LexiconPath, nil
}
