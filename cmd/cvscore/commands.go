package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cvscore/internal/domain"
	"cvscore/internal/journal"
	"cvscore/internal/transport"
	"cvscore/internal/tui"
	"cvscore/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scoring requests as JSON lines on stdin/stdout",
	Long: `Read one request envelope per line from stdin and write one response
envelope per line to stdout, in completion order. Each response carries the
id of its request; ids must be JSON strings. A line whose id is missing or not
a string is answered with an error response whose id is "".

Example:
  echo '{"type":"analyze_complexity","id":"1","payload":{"text":"Led a team."}}' | cvscore serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := worker.NewPool(a.corpus, a.cfg.Engine.Workers, a.cfg.Engine.QueueSize, a.logger)
	if err != nil {
		return err
	}
	runErr := make(chan error, 1)
	go func() { runErr <- pool.Run(ctx) }()

	serveErr := transport.Serve(ctx, os.Stdin, os.Stdout, pool, a.logger)
	if err := <-runErr; err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

var (
	scoreCVPath  string
	scoreJobPath string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one CV against one job description",
	Long: `Run relevance, keyword suggestion and complexity analysis for a CV and
print the results as JSON.

Example:
  cvscore score --cv cv.txt --job job.txt | jq .relevance`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCVPath, "cv", "", "Path to the CV text file (required)")
	scoreCmd.Flags().StringVar(&scoreJobPath, "job", "", "Path to the job description file (required)")
	_ = scoreCmd.MarkFlagRequired("cv")
	_ = scoreCmd.MarkFlagRequired("job")

	tuiCmd.Flags().StringVar(&tuiJobPath, "job", "", "Path to the job description file (required)")
	_ = tuiCmd.MarkFlagRequired("job")

	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "Number of entries to show")
}

type scoreReport struct {
	Relevance   domain.RelevanceResult  `json:"relevance"`
	Suggestions domain.SuggestionResult `json:"suggestions"`
	Complexity  domain.ComplexityResult `json:"complexity"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	cv, err := readText(scoreCVPath)
	if err != nil {
		return err
	}
	job, err := readText(scoreJobPath)
	if err != nil {
		return err
	}
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	s, err := a.startScorer(cmd.Context())
	if err != nil {
		return err
	}

	report, err := score(cmd.Context(), s.svc, cv, job)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report)
}

// score issues the three requests concurrently; responses are matched by id.
func score(ctx context.Context, sc domain.Scorer, cv, job string) (scoreReport, error) {
	var r scoreReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Relevance, err = sc.Relevance(ctx, cv, job)
		return err
	})
	g.Go(func() (err error) {
		r.Suggestions, err = sc.Suggest(ctx, cv)
		return err
	})
	g.Go(func() (err error) {
		r.Complexity, err = sc.Complexity(ctx, cv)
		return err
	})
	return r, g.Wait()
}

var tuiJobPath string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactively score CV text against a job description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		job, err := readText(tuiJobPath)
		if err != nil {
			return err
		}
		// The terminal belongs to the UI; keep logs off it.
		a, err := loadApp(io.Discard)
		if err != nil {
			return err
		}
		s, err := a.startScorer(cmd.Context())
		if err != nil {
			return err
		}
		// Scoring commands still in flight when the program quits see a
		// cancelled context, then a closed pool.
		ctx, cancel := context.WithCancel(cmd.Context())
		_, runErr := tea.NewProgram(tui.New(ctx, s.svc, job), tea.WithAltScreen()).Run()
		cancel()
		if err := s.Close(); runErr == nil {
			runErr = err
		}
		return runErr
	},
}

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recently journaled requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp(os.Stderr)
		if err != nil {
			return err
		}
		if !a.cfg.Journal.Enabled {
			return errors.New("journal is disabled; set journal.enabled or CVSCORE_JOURNAL_PATH")
		}
		j, err := journal.Open(cmd.Context(), a.cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()
		entries, err := j.Recent(cmd.Context(), journalLimit)
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), entries)
	},
}

func printEntries(w io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No journal entries.")
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s  %-18s  %-18s  %s  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Command, e.ResponseType, e.ID, e.Payload); err != nil {
			return err
		}
	}
	return nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
