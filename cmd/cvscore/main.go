package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cvscore/internal/config"
	"cvscore/internal/corpus"
	"cvscore/internal/journal"
	"cvscore/internal/logging"
	"cvscore/internal/service"
	"cvscore/internal/worker"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cvscore",
	Short: "Score CV text against job descriptions with a TF-IDF model",
	Long: `cvscore trains a TF-IDF model on a fixed corpus of job and skill snippets
and answers relevance, keyword suggestion and complexity requests.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/cvscore/config.yaml)")
	rootCmd.AddCommand(serveCmd, scoreCmd, tuiCmd, journalCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	corpus []string
}

// loadApp reads configuration and the seed corpus. Logs go to logOut; stdout
// is reserved for command output.
func loadApp(logOut io.Writer) (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	docs, err := corpus.Resolve(cfg.Corpus.Path)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return &app{cfg: cfg, logger: logger, corpus: docs}, nil
}

// scorer is a running pool with a correlating client and service in front.
type scorer struct {
	pool    *worker.Pool
	svc     *service.ScoringServiceImpl
	journal *journal.Journal
	runErr  chan error
}

func (a *app) startScorer(ctx context.Context) (*scorer, error) {
	pool, err := worker.NewPool(a.corpus, a.cfg.Engine.Workers, a.cfg.Engine.QueueSize, a.logger)
	if err != nil {
		return nil, err
	}
	s := &scorer{pool: pool, runErr: make(chan error, 1)}

	var rec service.Recorder
	if a.cfg.Journal.Enabled {
		j, err := journal.Open(ctx, a.cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		s.journal = j
		rec = j
		a.logger.Debug("journal open", slog.String("path", a.cfg.Journal.Path))
	}

	client := worker.NewClient(pool, pool.Responses(), a.logger)
	svc, err := service.NewScoringService(client, a.cfg.Cache.Size, rec, a.logger)
	if err != nil {
		if s.journal != nil {
			s.journal.Close()
		}
		return nil, err
	}
	s.svc = svc

	go func() { s.runErr <- pool.Run(ctx) }()
	return s, nil
}

// Close drains the pool and releases the journal.
func (s *scorer) Close() error {
	s.pool.Close()
	err := <-s.runErr
	if s.journal != nil {
		if jerr := s.journal.Close(); err == nil {
			err = jerr
		}
	}
	return err
}
