package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtranslate/internal/domain"
	"localtranslate/internal/usecase/status"
)

type fakeCommands struct {
	mu     sync.Mutex
	err    error
	models []string
	calls  atomic.Int32
}

func (f *fakeCommands) CheckStatus(ctx context.Context, model string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	if f.err != nil {
		return "", f.err
	}
	return model + " is ready", nil
}

func (f *fakeCommands) Translate(ctx context.Context, src, tgt, text, model string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeCommands) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeCommands) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.models...)
}

type modelRef struct{ v atomic.Value }

func newModelRef(id string) *modelRef {
	r := &modelRef{}
	r.v.Store(id)
	return r
}

func (r *modelRef) SelectedModel() string { return r.v.Load().(string) }

type fakeFocus struct {
	mu       sync.Mutex
	handlers map[int]func()
	next     int
	detached int
}

func newFakeFocus() *fakeFocus { return &fakeFocus{handlers: map[int]func(){}} }

func (f *fakeFocus) OnFocus(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.handlers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.handlers[id]; ok {
			delete(f.handlers, id)
			f.detached++
		}
	}
}

func (f *fakeFocus) fire() {
	f.mu.Lock()
	hs := make([]func(), 0, len(f.handlers))
	for _, h := range f.handlers {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h()
	}
}

func (f *fakeFocus) listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

func newMonitor(cmds *fakeCommands, models *modelRef, focus *fakeFocus, interval time.Duration) (*Monitor, *status.Board) {
	board := status.NewBoard()
	d := Deps{Commands: cmds, Board: board, Models: models, Log: zerolog.Nop()}
	if focus != nil {
		d.Focus = focus
	}
	return New(d, Options{Interval: interval}), board
}

func TestProbeSuccessClearsErrorWhenVisible(t *testing.T) {
	cmds := &fakeCommands{}
	m, board := newMonitor(cmds, newModelRef("translategemma:4b"), nil, time.Hour)
	board.SetError("old failure")

	require.NoError(t, m.Probe(context.Background(), true))
	assert.Equal(t, domain.StatusConnected, board.Status())
	assert.Equal(t, "old failure", board.Error())

	require.NoError(t, m.Probe(context.Background(), false))
	assert.Equal(t, "", board.Error())
}

func TestSilentFailureOnlyChangesBadge(t *testing.T) {
	cmds := &fakeCommands{err: errors.New("Ollama is not running")}
	m, board := newMonitor(cmds, newModelRef("translategemma:4b"), nil, time.Hour)
	board.SetError("previous")

	assert.Error(t, m.Probe(context.Background(), true))
	assert.Equal(t, domain.StatusDisconnected, board.Status())
	assert.Equal(t, "previous", board.Error())
}

func TestVisibleFailureSetsError(t *testing.T) {
	cmds := &fakeCommands{err: errors.New("Ollama is not running")}
	m, board := newMonitor(cmds, newModelRef("translategemma:4b"), nil, time.Hour)

	assert.Error(t, m.Retry(context.Background()))
	assert.Equal(t, domain.StatusDisconnected, board.Status())
	assert.Equal(t, "Ollama is not running", board.Error())
}

func TestProbeUsesCurrentModel(t *testing.T) {
	cmds := &fakeCommands{}
	models := newModelRef("translategemma:4b")
	m, _ := newMonitor(cmds, models, nil, time.Hour)

	require.NoError(t, m.Probe(context.Background(), true))
	models.v.Store("translategemma:27b")
	require.NoError(t, m.ModelChanged(context.Background()))
	assert.Equal(t, []string{"translategemma:4b", "translategemma:27b"}, cmds.seen())
}

func TestStartProbesVisiblyThenOnTimer(t *testing.T) {
	cmds := &fakeCommands{err: errors.New("down")}
	m, board := newMonitor(cmds, newModelRef("translategemma:4b"), nil, 5*time.Millisecond)

	m.Start(context.Background())
	defer m.Stop()

	require.Eventually(t, func() bool { return board.Error() == "down" }, time.Second, time.Millisecond)
	board.SetError("")
	require.Eventually(t, func() bool { return cmds.calls.Load() >= 3 }, time.Second, time.Millisecond)
	// timer probes are silent
	assert.Equal(t, "", board.Error())
	assert.Equal(t, domain.StatusDisconnected, board.Status())
}

func TestFocusTriggersSilentProbe(t *testing.T) {
	cmds := &fakeCommands{}
	focus := newFakeFocus()
	m, board := newMonitor(cmds, newModelRef("translategemma:12b"), focus, time.Hour)

	m.Start(context.Background())
	defer m.Stop()
	require.Eventually(t, func() bool { return cmds.calls.Load() == 1 }, time.Second, time.Millisecond)
	require.Equal(t, 1, focus.listeners())

	cmds.setErr(errors.New("model not found"))
	focus.fire()
	require.Eventually(t, func() bool { return board.Status() == domain.StatusDisconnected }, time.Second, time.Millisecond)
	assert.Equal(t, "", board.Error())
}

func TestStopReleasesTimerAndListener(t *testing.T) {
	cmds := &fakeCommands{}
	focus := newFakeFocus()
	m, _ := newMonitor(cmds, newModelRef("translategemma:4b"), focus, 2*time.Millisecond)

	m.Start(context.Background())
	require.Eventually(t, func() bool { return cmds.calls.Load() >= 3 }, time.Second, time.Millisecond)

	m.Stop()
	assert.False(t, m.Running())
	assert.Equal(t, 0, focus.listeners())
	assert.Equal(t, 1, focus.detached)

	after := cmds.calls.Load()
	focus.fire()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, cmds.calls.Load(), "no probes after Stop")

	// second Stop is harmless
	m.Stop()
	assert.Equal(t, 1, focus.detached)
}

func TestStopWhenContextCanceled(t *testing.T) {
	cmds := &fakeCommands{}
	focus := newFakeFocus()
	m, _ := newMonitor(cmds, newModelRef("translategemma:4b"), focus, 2*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()
	m.Stop()
	assert.Equal(t, 0, focus.listeners())
}

func TestStartTwiceRegistersOnce(t *testing.T) {
	cmds := &fakeCommands{}
	focus := newFakeFocus()
	m, _ := newMonitor(cmds, newModelRef("translategemma:4b"), focus, time.Hour)

	m.Start(context.Background())
	m.Start(context.Background())
	assert.Equal(t, 1, focus.listeners())
	m.Stop()

	m.Start(context.Background())
	assert.Equal(t, 1, focus.listeners())
	m.Stop()
	assert.Equal(t, 0, focus.listeners())
}
