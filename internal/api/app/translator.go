package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"localtranslate/internal/domain"
	"localtranslate/internal/ports"
	"localtranslate/internal/usecase/catalog"
	"localtranslate/internal/usecase/monitor"
	"localtranslate/internal/usecase/selector"
	"localtranslate/internal/usecase/session"
	"localtranslate/internal/usecase/status"
)

const (
	SlotSource = "source"
	SlotTarget = "target"
)

type Deps struct {
	Session *session.Session
	Monitor *monitor.Monitor
	Board   *status.Board
	Catalog *catalog.Catalog
	Log     zerolog.Logger
}

// TranslatorAPI is the frontend binding for the translate screen.
type TranslatorAPI struct {
	d      Deps
	source *selector.Selector
	target *selector.Selector

	mu     sync.Mutex
	ctx    context.Context
	em     ports.EventEmitter
	unsubs []func()
}

// View is everything the translate screen renders.
type View struct {
	Session      domain.SessionState  `json:"session"`
	Connection   status.Snapshot      `json:"connection"`
	Source       selector.View        `json:"source"`
	Target       selector.View        `json:"target"`
	Models       []domain.ModelOption `json:"models"`
	CanTranslate bool                 `json:"can_translate"`
}

func NewTranslatorAPI(d Deps) *TranslatorAPI {
	a := &TranslatorAPI{d: d, ctx: context.Background()}
	st := d.Session.Snapshot()
	a.source = selector.New(d.Catalog, st.SourceLang, false, d.Session.SetSourceLang)
	a.target = selector.New(d.Catalog, st.TargetLang, false, d.Session.SetTargetLang)
	a.unsubs = append(a.unsubs,
		d.Session.Subscribe(a.onSession),
		d.Board.Subscribe(a.onConnection),
	)
	return a
}

// Start binds the emitter and starts the connection monitor. ctx is used for calls made on
// behalf of the frontend.
func (a *TranslatorAPI) Start(ctx context.Context, em ports.EventEmitter) {
	a.mu.Lock()
	a.ctx = ctx
	a.em = em
	a.mu.Unlock()
	a.d.Monitor.Start(ctx)
}

// Stop stops background probing and detaches all observers.
func (a *TranslatorAPI) Stop() {
	a.d.Monitor.Stop()
	a.mu.Lock()
	unsubs := a.unsubs
	a.unsubs = nil
	a.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}

func (a *TranslatorAPI) State() View {
	st := a.d.Session.Snapshot()
	return View{
		Session:      st,
		Connection:   a.d.Board.Snapshot(),
		Source:       a.source.View(),
		Target:       a.target.View(),
		Models:       domain.Models,
		CanTranslate: st.Phase == domain.PhaseIdle,
	}
}

func (a *TranslatorAPI) Languages() []domain.Language { return a.d.Catalog.All() }

func (a *TranslatorAPI) SetSourceText(text string) View {
	a.d.Session.SetSourceText(text)
	return a.State()
}

// Translate starts a translation. Validation problems are reported through the view's
// error message; the outcome arrives as session.changed events.
func (a *TranslatorAPI) Translate() View {
	_, err := a.d.Session.RequestTranslate(a.context())
	a.logBusy(err, "translate")
	return a.State()
}

func (a *TranslatorAPI) Swap() View {
	a.logBusy(a.d.Session.SwapLanguages(), "swap")
	return a.State()
}

// SelectModel switches models and re-probes right away with the new id.
func (a *TranslatorAPI) SelectModel(id string) (View, error) {
	if err := a.d.Session.SelectModel(a.context(), id); err != nil {
		if errors.Is(err, domain.ErrBusy) || a.d.Session.SelectedModel() != id {
			return a.State(), err
		}
		a.d.Log.Warn().Err(err).Msg("model selection not persisted")
	}
	_ = a.d.Monitor.ModelChanged(a.context())
	return a.State(), nil
}

func (a *TranslatorAPI) Retry() View {
	_ = a.d.Monitor.Retry(a.context())
	return a.State()
}

func (a *TranslatorAPI) Toggle(slot string) (View, error) {
	s, err := a.slot(slot)
	if err != nil {
		return a.State(), err
	}
	s.ToggleOpen()
	return a.emitSelectors(), nil
}

func (a *TranslatorAPI) SetQuery(slot, query string) (View, error) {
	s, err := a.slot(slot)
	if err != nil {
		return a.State(), err
	}
	s.SetQuery(query)
	return a.emitSelectors(), nil
}

func (a *TranslatorAPI) Pick(slot, code string) (View, error) {
	s, err := a.slot(slot)
	if err != nil {
		return a.State(), err
	}
	a.logBusy(s.Select(code), "pick "+slot)
	return a.emitSelectors(), nil
}

// Dismiss closes a picker after an outside click or Escape.
func (a *TranslatorAPI) Dismiss(slot string) (View, error) {
	s, err := a.slot(slot)
	if err != nil {
		return a.State(), err
	}
	s.Dismiss()
	return a.emitSelectors(), nil
}

func (a *TranslatorAPI) slot(name string) (*selector.Selector, error) {
	switch name {
	case SlotSource:
		return a.source, nil
	case SlotTarget:
		return a.target, nil
	}
	return nil, fmt.Errorf("unknown selector %q", name)
}

func (a *TranslatorAPI) onSession(st domain.SessionState) {
	inFlight := st.Phase == domain.PhaseInFlight
	a.source.SetValue(st.SourceLang)
	a.target.SetValue(st.TargetLang)
	a.source.SetDisabled(inFlight)
	a.target.SetDisabled(inFlight)
	a.emit(ports.EventSessionChanged, st)
}

func (a *TranslatorAPI) onConnection(s status.Snapshot) {
	a.emit(ports.EventConnectionStatus, s)
}

func (a *TranslatorAPI) emitSelectors() View {
	v := a.State()
	a.emit(ports.EventSelectorChanged, map[string]any{SlotSource: v.Source, SlotTarget: v.Target})
	return v
}

func (a *TranslatorAPI) emit(name string, payload any) {
	a.mu.Lock()
	em := a.em
	a.mu.Unlock()
	if em != nil {
		em.Emit(name, payload)
	}
}

func (a *TranslatorAPI) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

func (a *TranslatorAPI) logBusy(err error, op string) {
	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrBusy) || errors.Is(err, selector.ErrDisabled) {
		a.d.Log.Debug().Str("op", op).Msg("ignored while translating")
		return
	}
	a.d.Log.Debug().Err(err).Str("op", op).Msg("rejected")
}
