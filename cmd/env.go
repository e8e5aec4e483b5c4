package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/auth"
	"github.com/abhisek/studyforge/internal/config"
	"github.com/abhisek/studyforge/internal/logging"
	"github.com/abhisek/studyforge/internal/store"
)

// env holds everything a command needs to talk to the backend.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	session *auth.Holder
	client  *apiclient.Client
	closers []func()
}

// setup loads configuration, opens the log and the local store, restores
// any saved session and builds the API client. console routes warnings to
// stderr; the TUI passes false since it owns the terminal.
func setup(cmd *cobra.Command, console bool) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}

	logFile := cfg.Log.File
	if logFile == "" {
		if logFile, err = config.DefaultLogPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	opts := logging.Options{
		File:       logFile,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
	if console {
		opts.Console = os.Stderr
	}
	log, closeLog, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	e.log = log.With(zap.String("command", cmd.Name()))
	e.closers = append(e.closers, closeLog)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if e.store, err = store.Open(dbPath); err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.closers = append(e.closers, func() { _ = e.store.Close() })

	e.session = auth.NewHolder(e.store.CredentialRepo(), auth.WithLogger(e.log))
	if _, err := e.session.Restore(commandContext(cmd)); err != nil {
		e.log.Warn("saved session not restored", zap.Error(err))
	}

	e.client, err = apiclient.New(cfg.API(), e.session,
		apiclient.WithEventRepo(e.store.RequestEventRepo()),
		apiclient.WithLogger(e.log),
	)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("build api client: %w", err)
	}
	return e, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// requireSession fails fast for commands that need a signed-in user.
func (e *env) requireSession() error {
	if !e.session.Get().Valid() {
		return fmt.Errorf("not signed in: run `studyforge login` first")
	}
	return nil
}

// resolveDBPath returns the database path using the db_path setting (set
// by --db, STUDYFORGE_DB_PATH or the config file), then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
