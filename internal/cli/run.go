package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eshaffer321/recurscan/internal/application/service"
	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
	"github.com/eshaffer321/recurscan/internal/infrastructure/config"
	"github.com/eshaffer321/recurscan/internal/infrastructure/logging"
	"github.com/eshaffer321/recurscan/internal/infrastructure/storage"
	"github.com/eshaffer321/recurscan/internal/ingest"
)

// LoadConfig loads path when set (failing loudly), otherwise config.yaml
// with an environment fallback.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrEnv(), nil
	}
	return config.Load(path)
}

// newLogger builds the command logger on stderr.
func newLogger(cfg *config.Config, verbose bool, stderr io.Writer, system string) *slog.Logger {
	loggingCfg := cfg.Observability.Logging
	if verbose {
		loggingCfg.Level = "debug"
	}
	return logging.NewLoggerTo(stderr, loggingCfg).With("system", system)
}

// newService wires the extractor, optional storage and worker pool.
func newService(cfg *config.Config, store storage.Repository, logger *slog.Logger) (*service.FeatureService, error) {
	opts, err := cfg.FeatureOptions()
	if err != nil {
		return nil, err
	}
	extractor := features.NewExtractor(opts, logger.With("component", "extractor"))
	return service.NewFeatureService(extractor, store, cfg.Workers(), logger), nil
}

// RunFeatures executes the recur-features command: load transactions from a
// CSV file or the database, compute features, optionally store the run,
// and write the rows to stdout (or -output).
func RunFeatures(ctx context.Context, flags *FeatureFlags, stdout, stderr io.Writer) error {
	cfg, err := LoadConfig(flags.Config)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, flags.Verbose, stderr, "features")

	var store storage.Repository
	if flags.UsesDatabase() {
		dbPath := flags.DBPath
		if dbPath == "" {
			dbPath = cfg.Storage.DatabasePath
		}
		s, err := storage.NewStorage(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", dbPath, err)
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	svc, err := newService(cfg, store, logger)
	if err != nil {
		return err
	}

	txs, err := loadTransactions(ctx, flags, store)
	if err != nil {
		return err
	}
	logger.Info("transactions loaded", "count", len(txs))

	var rows []storage.FeatureRow
	if flags.Save {
		if flags.Input != "" {
			if err := svc.Import(ctx, txs); err != nil {
				return err
			}
		}
		result, err := svc.ComputeAll(ctx, txs, source(flags))
		if err != nil {
			return err
		}
		rows = result.Rows
		PrintRunSummary(stderr, result.Run)
	} else {
		rows, err = svc.Compute(ctx, txs)
		if err != nil {
			return err
		}
	}

	out := stdout
	if flags.Output != "" {
		f, err := os.Create(flags.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", flags.Output, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := WriteRows(out, flags.Format, rows); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}
	return nil
}

func loadTransactions(ctx context.Context, flags *FeatureFlags, store storage.Repository) ([]transaction.Transaction, error) {
	if flags.Input != "" {
		return ingest.ReadCSVFile(flags.Input)
	}
	txs, err := store.ListTransactions(ctx, flags.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

func source(flags *FeatureFlags) string {
	switch {
	case flags.Input != "":
		return "csv:" + flags.Input
	case flags.UserID != "":
		return "user:" + flags.UserID
	default:
		return "all"
	}
}
