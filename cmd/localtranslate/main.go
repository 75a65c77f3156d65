// Command localtranslate translates text with a local Ollama server from the terminal.
// It shares configuration, storage and the translation workflow with the desktop app.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	dbsqlite "localtranslate/internal/adapters/db/sqlite"
	llmfactory "localtranslate/internal/adapters/llm/factory"
	"localtranslate/internal/adapters/llm/ollama"
	"localtranslate/internal/config"
	"localtranslate/internal/logging"
	"localtranslate/internal/usecase/catalog"
	"localtranslate/internal/usecase/session"
	"localtranslate/internal/usecase/status"
)

var version = "dev"

type options struct {
	configPath string
	verbose    bool
}

// env is everything a command needs, opened once per invocation.
type env struct {
	cfg     *config.Config
	log     *logging.Logger
	db      *sql.DB
	client  *ollama.Client
	board   *status.Board
	session *session.Session
}

func openEnv(ctx context.Context, cmd *cobra.Command, o *options) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logging.Config{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		Console:    o.verbose,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Out:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	db, err := dbsqlite.Init(cfg.Storage.DBPath)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	client, err := llmfactory.FromConfig(cfg, catalog.Default())
	if err != nil {
		db.Close()
		logger.Close()
		return nil, err
	}
	board := status.NewBoard()
	sess := session.New(session.Deps{
		Commands: client,
		Settings: dbsqlite.NewSettingsRepo(db),
		Board:    board,
		Log:      logger.Component("session"),
	}, session.Options{Timeout: cfg.Ollama.Timeout})
	if err := sess.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("using default model")
	}
	return &env{
		cfg:     cfg,
		log:     logger,
		db:      db,
		client:  client,
		board:   board,
		session: sess,
	}, nil
}

func (e *env) Close() {
	e.db.Close()
	e.log.Close()
}

// withEnv adapts a command body that needs the opened environment.
func withEnv(o *options, run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), cmd, o)
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, args, e)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "localtranslate",
		Short: "Translate text with a local Ollama server",
		Long: `localtranslate translates text with TranslateGemma models served by a local Ollama.

Commands:
  translate   Translate text from arguments or stdin
  status      Check that Ollama runs and the selected model is installed
  languages   List or search supported languages
  models      List selectable models`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newTranslateCmd(o),
		newStatusCmd(o),
		newLanguagesCmd(),
		newModelsCmd(o),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
