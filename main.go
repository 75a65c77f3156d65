package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	dbsqlite "localtranslate/internal/adapters/db/sqlite"
	llmfactory "localtranslate/internal/adapters/llm/factory"
	apiapp "localtranslate/internal/api/app"
	"localtranslate/internal/config"
	"localtranslate/internal/logging"
	"localtranslate/internal/ports"
	"localtranslate/internal/usecase/catalog"
	"localtranslate/internal/usecase/monitor"
	"localtranslate/internal/usecase/session"
	"localtranslate/internal/usecase/status"
)

//go:embed all:frontend/dist
var assets embed.FS

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
	}
	logger, err := logging.New(logging.Config{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		Console:    cfg.Log.Console,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Close()

	db, err := dbsqlite.Init(cfg.Storage.DBPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Storage.DBPath).Msg("open settings db, falling back to memory")
		if db, err = dbsqlite.Init(dbsqlite.MemoryPath); err != nil {
			logger.Fatal().Err(err).Msg("open in-memory settings db")
		}
	}
	defer db.Close()
	settings := dbsqlite.NewSettingsRepo(db)

	langs := catalog.Default()
	commands, err := llmfactory.FromConfig(cfg, langs)
	if err != nil {
		logger.Fatal().Err(err).Msg("ollama client")
	}

	board := status.NewBoard()
	sess := session.New(session.Deps{
		Commands: commands,
		Settings: settings,
		Board:    board,
		Log:      logger.Component("session"),
	}, session.Options{Timeout: cfg.Ollama.Timeout})
	_ = sess.Load(context.Background())

	focus := &wailsFocus{event: ports.EventWindowFocus}
	mon := monitor.New(monitor.Deps{
		Commands: commands,
		Board:    board,
		Models:   sess,
		Focus:    focus,
		Log:      logger.Component("monitor"),
	}, monitor.Options{Interval: cfg.Monitor.Interval, Timeout: cfg.Ollama.ProbeTimeout})

	translator := apiapp.NewTranslatorAPI(apiapp.Deps{
		Session: sess,
		Monitor: mon,
		Board:   board,
		Catalog: langs,
		Log:     logger.Component("api"),
	})
	app := NewApp(logger, translator, focus)

	logger.Info().Str("version", version).Str("ollama", cfg.Ollama.BaseURL).Str("model", sess.SelectedModel()).Msg("starting")

	// Create application with options
	err = wails.Run(&options.App{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
			translator,
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("wails run")
		os.Exit(1)
	}
}
