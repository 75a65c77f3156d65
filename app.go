package main

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	apiapp "localtranslate/internal/api/app"
	"localtranslate/internal/logging"
)

// App struct
type App struct {
	ctx        context.Context
	log        *logging.Logger
	translator *apiapp.TranslatorAPI
	focus      *wailsFocus
}

// NewApp creates a new App application struct
func NewApp(log *logging.Logger, translator *apiapp.TranslatorAPI, focus *wailsFocus) *App {
	return &App{log: log, translator: translator, focus: focus}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.focus.bind(ctx)
	a.translator.Start(ctx, wailsEmitter{ctx: ctx})
	a.log.Info().Msg("startup complete")
}

func (a *App) shutdown(ctx context.Context) {
	a.translator.Stop()
	a.log.Info().Msg("shutdown complete")
}

// Version is shown in the about line of the frontend.
func (a *App) Version() string { return version }

type wailsEmitter struct{ ctx context.Context }

func (w wailsEmitter) Emit(name string, payload any) {
	runtime.EventsEmit(w.ctx, name, payload)
}

// wailsFocus turns the frontend's focus event into ports.FocusSource callbacks.
type wailsFocus struct {
	mu    sync.Mutex
	ctx   context.Context
	event string
}

func (f *wailsFocus) bind(ctx context.Context) {
	f.mu.Lock()
	f.ctx = ctx
	f.mu.Unlock()
}

func (f *wailsFocus) OnFocus(fn func()) func() {
	f.mu.Lock()
	ctx := f.ctx
	f.mu.Unlock()
	if ctx == nil {
		return func() {}
	}
	cancel := runtime.EventsOn(ctx, f.event, func(...interface{}) { fn() })
	var once sync.Once
	return func() { once.Do(cancel) }
}
