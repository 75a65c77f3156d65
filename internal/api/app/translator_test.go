package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtranslate/internal/domain"
	"localtranslate/internal/ports"
	"localtranslate/internal/usecase/catalog"
	"localtranslate/internal/usecase/monitor"
	"localtranslate/internal/usecase/session"
	"localtranslate/internal/usecase/status"
)

type fakeCommands struct {
	mu       sync.Mutex
	probes   []string
	statusOK map[string]bool
	out      string
	gate     chan struct{}
}

func (f *fakeCommands) CheckStatus(ctx context.Context, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, model)
	if f.statusOK[model] {
		return "ready", nil
	}
	return "", errors.New(model + " model not found")
}

func (f *fakeCommands) Translate(ctx context.Context, src, tgt, text, model string) (string, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.out, nil
}

func (f *fakeCommands) probed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.probes...)
}

type memSettings struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *memSettings) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memSettings) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Emit(name string, payload any) {
	r.mu.Lock()
	r.events = append(r.events, name)
	r.mu.Unlock()
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func newAPI(t *testing.T, cmds *fakeCommands) (*TranslatorAPI, *memSettings) {
	t.Helper()
	board := status.NewBoard()
	settings := &memSettings{m: map[string]string{}}
	sess := session.New(session.Deps{Commands: cmds, Settings: settings, Board: board, Log: zerolog.Nop()}, session.Options{})
	mon := monitor.New(monitor.Deps{Commands: cmds, Board: board, Models: sess, Log: zerolog.Nop()}, monitor.Options{Interval: time.Hour})
	a := NewTranslatorAPI(Deps{Session: sess, Monitor: mon, Board: board, Catalog: catalog.Default(), Log: zerolog.Nop()})
	t.Cleanup(a.Stop)
	return a, settings
}

func TestSelectModelReprobesWithNewModel(t *testing.T) {
	cmds := &fakeCommands{statusOK: map[string]bool{"translategemma:4b": true}}
	a, settings := newAPI(t, cmds)

	v := a.Retry()
	require.Equal(t, domain.StatusConnected, v.Connection.Status)

	v, err := a.SelectModel("translategemma:27b")
	require.NoError(t, err)
	assert.Equal(t, []string{"translategemma:4b", "translategemma:27b"}, cmds.probed())
	assert.Equal(t, domain.StatusDisconnected, v.Connection.Status)
	assert.Equal(t, "translategemma:27b model not found", v.Connection.Error)
	assert.Equal(t, "translategemma:27b", v.Session.Model)
	assert.Equal(t, "translategemma:27b", settings.m[domain.SelectedModelKey])
}

func TestSelectUnknownModelDoesNotProbe(t *testing.T) {
	cmds := &fakeCommands{}
	a, _ := newAPI(t, cmds)
	_, err := a.SelectModel("llama3")
	assert.Error(t, err)
	assert.Empty(t, cmds.probed())
}

func TestPickUpdatesSession(t *testing.T) {
	a, _ := newAPI(t, &fakeCommands{})

	v, err := a.Toggle(SlotTarget)
	require.NoError(t, err)
	assert.True(t, v.Target.Open)
	assert.False(t, v.Source.Open)

	v, err = a.SetQuery(SlotTarget, "GER")
	require.NoError(t, err)
	require.Len(t, v.Target.Options, 1)

	v, err = a.Pick(SlotTarget, "de")
	require.NoError(t, err)
	assert.False(t, v.Target.Open)
	assert.Equal(t, "de", v.Session.TargetLang)
	assert.Equal(t, "German", v.Target.Label)

	_, err = a.Toggle("middle")
	assert.Error(t, err)
}

func TestSwapSyncsSelectors(t *testing.T) {
	a, _ := newAPI(t, &fakeCommands{})
	a.SetSourceText("Hello")
	v := a.Swap()
	assert.Equal(t, "es", v.Source.Value)
	assert.Equal(t, "en", v.Target.Value)
	assert.Equal(t, "Hello", v.Session.TranslatedText)
}

func TestSelectorsDisabledWhileTranslating(t *testing.T) {
	cmds := &fakeCommands{out: "Hola", gate: make(chan struct{}), statusOK: map[string]bool{}}
	a, _ := newAPI(t, cmds)
	rec := &recorder{}
	a.mu.Lock()
	a.em = rec
	a.mu.Unlock()

	a.SetSourceText("Hello")
	v := a.Translate()
	assert.Equal(t, domain.PhaseInFlight, v.Session.Phase)
	assert.False(t, v.CanTranslate)
	assert.True(t, v.Source.Disabled)
	assert.True(t, v.Target.Disabled)

	v, _ = a.Toggle(SlotSource)
	assert.False(t, v.Source.Open)

	v, err := a.Pick(SlotSource, "fr")
	require.NoError(t, err)
	assert.Equal(t, "en", v.Source.Value)
	assert.Equal(t, "English", v.Source.Label)
	assert.Equal(t, "en", v.Session.SourceLang)

	close(cmds.gate)
	require.Eventually(t, func() bool { return a.State().Session.Phase == domain.PhaseIdle }, time.Second, time.Millisecond)
	v = a.State()
	assert.Equal(t, "Hola", v.Session.TranslatedText)
	assert.Equal(t, domain.StatusConnected, v.Connection.Status)
	assert.False(t, v.Source.Disabled)
	assert.True(t, v.CanTranslate)
	assert.GreaterOrEqual(t, rec.count(ports.EventSessionChanged), 4)
	assert.GreaterOrEqual(t, rec.count(ports.EventConnectionStatus), 2)
}

func TestTranslateValidationShowsError(t *testing.T) {
	a, _ := newAPI(t, &fakeCommands{})
	v := a.Translate()
	assert.Equal(t, "Please enter some text to translate", v.Session.LastError)
	assert.Equal(t, domain.PhaseIdle, v.Session.Phase)
}

func TestStartAndStopMonitor(t *testing.T) {
	cmds := &fakeCommands{statusOK: map[string]bool{"translategemma:4b": true}}
	a, _ := newAPI(t, cmds)
	rec := &recorder{}

	a.Start(context.Background(), rec)
	require.Eventually(t, func() bool { return a.State().Connection.Status == domain.StatusConnected }, time.Second, time.Millisecond)
	a.Stop()
	assert.False(t, a.d.Monitor.Running())
	assert.Equal(t, 1, rec.count(ports.EventConnectionStatus))
}
