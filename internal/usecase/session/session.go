// Package session implements the translation workflow: text and language selection, the
// selected model, and the single outstanding translate call.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"localtranslate/internal/domain"
	"localtranslate/internal/ports"
	"localtranslate/internal/usecase/status"
)

type Deps struct {
	Commands ports.Commands
	Settings ports.SettingsRepository
	Board    *status.Board
	Log      zerolog.Logger
}

type Options struct {
	// Timeout bounds one translate call. Zero leaves it to the caller's context.
	Timeout time.Duration
}

type Session struct {
	d   Deps
	opt Options

	mu        sync.Mutex
	state     domain.SessionState
	lastErr   error
	nextID    int
	observers map[int]func(domain.SessionState)
}

func New(d Deps, opt Options) *Session {
	return &Session{
		d:   d,
		opt: opt,
		state: domain.SessionState{
			SourceLang: domain.DefaultSourceLang,
			TargetLang: domain.DefaultTargetLang,
			Model:      domain.DefaultModel(),
			Phase:      domain.PhaseIdle,
		},
		observers: map[int]func(domain.SessionState){},
	}
}

// Load restores the persisted model. Missing or unknown values keep the default; a read
// error is returned after falling back.
func (s *Session) Load(ctx context.Context) error {
	v, err := s.d.Settings.Get(ctx, domain.SelectedModelKey)
	if err != nil {
		s.d.Log.Warn().Err(err).Msg("read selected model")
		return fmt.Errorf("read %s: %w", domain.SelectedModelKey, err)
	}
	if _, ok := domain.FindModel(v); !ok {
		if v != "" {
			s.d.Log.Warn().Str("model", v).Msg("ignoring unknown persisted model")
		}
		return nil
	}
	s.mu.Lock()
	s.state.Model = v
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	st.LastError = s.d.Board.Error()
	return st
}

func (s *Session) SelectedModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Model
}

// Subscribe registers fn for every state change. fn runs outside the session lock.
func (s *Session) Subscribe(fn func(domain.SessionState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) SetSourceText(text string) {
	s.mu.Lock()
	s.state.SourceText = text
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

func (s *Session) SetSourceLang(code string) error {
	return s.mutate(func(st *domain.SessionState) { st.SourceLang = code })
}

func (s *Session) SetTargetLang(code string) error {
	return s.mutate(func(st *domain.SessionState) { st.TargetLang = code })
}

// SwapLanguages exchanges the language pair and moves the translation into the input.
func (s *Session) SwapLanguages() error {
	return s.mutate(func(st *domain.SessionState) {
		st.SourceLang, st.TargetLang = st.TargetLang, st.SourceLang
		st.SourceText, st.TranslatedText = st.TranslatedText, st.SourceText
	})
}

// SelectModel switches to id and persists it. The in-memory selection sticks even if
// persisting fails; that error is returned.
func (s *Session) SelectModel(ctx context.Context, id string) error {
	if _, ok := domain.FindModel(id); !ok {
		return fmt.Errorf("unknown model %q", id)
	}
	if err := s.mutate(func(st *domain.SessionState) { st.Model = id }); err != nil {
		return err
	}
	if err := s.d.Settings.Set(ctx, domain.SelectedModelKey, id); err != nil {
		s.d.Log.Warn().Err(err).Str("model", id).Msg("persist selected model")
		return fmt.Errorf("persist %s: %w", domain.SelectedModelKey, err)
	}
	return nil
}

type request struct {
	src, tgt, text, model string
}

// RequestTranslate validates the input and starts the translate call. It only runs from
// idle; otherwise ErrBusy. Validation failures set the error message, leave the session idle
// and return ErrEmptyText or ErrSameLanguages without calling out. The returned channel is
// closed once the outcome is recorded and the session is idle again.
//
// Validation and the move to in-flight happen under one lock, so no setter can change the
// request between the check and the call. Observers still see validating, then in-flight.
func (s *Session) RequestTranslate(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.state.Phase != domain.PhaseIdle {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	s.state.Phase = domain.PhaseValidating
	validating := s.state
	req := request{src: s.state.SourceLang, tgt: s.state.TargetLang, text: s.state.SourceText, model: s.state.Model}
	err := validate(req)
	if err != nil {
		s.state.Phase = domain.PhaseIdle
		s.lastErr = err
	} else {
		s.state.TranslatedText = ""
		s.state.Phase = domain.PhaseInFlight
	}
	next := s.state
	s.mu.Unlock()

	s.notify(validating)
	if err != nil {
		s.d.Board.SetError(err.Error())
		s.notify(next)
		return nil, err
	}
	s.d.Board.SetError("")
	s.notify(next)

	done := make(chan struct{})
	go s.run(ctx, req, done)
	return done, nil
}

// Translate is RequestTranslate followed by waiting for the outcome.
func (s *Session) Translate(ctx context.Context) error {
	done, err := s.RequestTranslate(ctx)
	if err != nil {
		return err
	}
	<-done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func validate(r request) error {
	if strings.TrimSpace(r.text) == "" {
		return domain.ErrEmptyText
	}
	if r.src == r.tgt {
		return domain.ErrSameLanguages
	}
	return nil
}

func (s *Session) run(ctx context.Context, req request, done chan<- struct{}) {
	defer close(done)
	log := s.d.Log.With().Str("model", req.model).Str("src", req.src).Str("tgt", req.tgt).Logger()
	log.Info().Int("len", len(req.text)).Msg("translate start")

	tctx := ctx
	if s.opt.Timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, s.opt.Timeout)
		defer cancel()
	}
	out, err := s.d.Commands.Translate(tctx, req.src, req.tgt, req.text, req.model)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.state.TranslatedText = out
	}
	s.state.Phase = domain.PhaseSettled
	settled := s.state
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("translate failed")
		s.d.Board.Resolve(domain.StatusDisconnected, err.Error())
	} else {
		log.Info().Int("len", len(out)).Msg("translate done")
		s.d.Board.SetStatus(domain.StatusConnected)
	}
	s.notify(settled)

	s.mu.Lock()
	s.state.Phase = domain.PhaseIdle
	idle := s.state
	s.mu.Unlock()
	s.notify(idle)
}

// mutate applies fn unless a translate call is being started or is in flight.
func (s *Session) mutate(fn func(*domain.SessionState)) error {
	s.mu.Lock()
	if s.state.Phase == domain.PhaseValidating || s.state.Phase == domain.PhaseInFlight {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	fn(&s.state)
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// notify hands st, captured under the lock at the time of the change, to the observers.
func (s *Session) notify(st domain.SessionState) {
	s.mu.Lock()
	obs := make([]func(domain.SessionState), 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.Unlock()
	if len(obs) == 0 {
		return
	}
	st.LastError = s.d.Board.Error()
	for _, o := range obs {
		o(st)
	}
}
