// Package cmd implements the capex CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/config"
	"github.com/theirongolddev/capex/internal/logging"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/store"
	"github.com/theirongolddev/capex/internal/tracker"
	"github.com/theirongolddev/capex/internal/types"
)

var (
	flagDB      string
	flagYear    int
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "capex",
	Short:         "Capital expenditure tracker",
	Long:          "Track resources, projects, monthly allocation forecasts and actual capital costs against budget.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Store database path (default from config or XDG data dir)")
	rootCmd.PersistentFlags().IntVarP(&flagYear, "year", "y", 0, "Year to report on (default: selected year)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// env is what every data command works against.
type env struct {
	cfg     config.Config
	log     zerolog.Logger
	db      *store.SQLite
	tracker *tracker.Tracker
}

// openEnv loads config, builds the logger and opens the store. The caller
// must call close.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg)

	path := config.DBPath(cfg)
	if flagDB != "" {
		path = flagDB
	}
	db, err := store.Open(path, log)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		log:     log,
		db:      db,
		tracker: tracker.New(db, log, tracker.WithDefaultYear(cfg.General.DefaultYear)),
	}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing store")
	}
}

// year resolves the reporting year: --year, then the stored selection.
func (e *env) year() (int, error) {
	if flagYear > 0 {
		return flagYear, nil
	}
	return e.tracker.SelectedYear()
}

// snapshot reads the store and resolves the reporting year in one go.
func (e *env) snapshot() (model.Snapshot, int, error) {
	s, err := e.tracker.Snapshot()
	if err != nil {
		return model.Snapshot{}, 0, err
	}
	year, err := e.year()
	if err != nil {
		return model.Snapshot{}, 0, err
	}
	return s, year, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := cfg.Log.Level
	switch {
	case flagVerbose:
		level = "debug"
	case flagQuiet:
		level = "error"
	}
	return logging.New(os.Stderr, logging.Options{Level: level, Format: cfg.Log.Format})
}

// withEnv adapts a command body that needs an open store to cobra's RunE.
func withEnv(fn func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		return fn(e, args)
	}
}

func parseMonthArg(s string) (types.Month, error) {
	m, err := types.ParseMonth(strings.TrimSpace(s))
	if err != nil {
		return types.Month{}, fmt.Errorf("month %q: expected YYYY-MM", s)
	}
	return m, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
