// Package monitor keeps the connection badge fresh by probing the model server on start,
// on a repeating timer and whenever the window regains focus.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"localtranslate/internal/domain"
	"localtranslate/internal/ports"
	"localtranslate/internal/usecase/status"
)

const DefaultInterval = 30 * time.Second

type Deps struct {
	Commands ports.Commands
	Board    *status.Board
	Models   ports.ModelSource
	// Focus is optional; without it only the timer and explicit calls probe.
	Focus ports.FocusSource
	Log   zerolog.Logger
}

type Options struct {
	Interval time.Duration
	// Timeout bounds a single probe. Zero means no extra bound.
	Timeout time.Duration
}

type Monitor struct {
	d   Deps
	opt Options

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}
	unsubscribe func()
}

func New(d Deps, opt Options) *Monitor {
	if opt.Interval <= 0 {
		opt.Interval = DefaultInterval
	}
	return &Monitor{d: d, opt: opt}
}

// Start runs a visible probe right away, then silent probes on every tick and focus event
// until Stop is called or ctx is done. Calling Start on a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	lctx, cancel := context.WithCancel(ctx)
	focus := make(chan struct{}, 1)
	done := make(chan struct{})
	unsubscribe := func() {}
	if m.d.Focus != nil {
		unsubscribe = m.d.Focus.OnFocus(func() {
			select {
			case focus <- struct{}{}:
			default:
			}
		})
	}
	m.running = true
	m.cancel = cancel
	m.done = done
	m.unsubscribe = unsubscribe
	go m.loop(lctx, focus, done)
}

// Stop cancels the timer, detaches the focus listener and waits for the polling goroutine
// to exit. No probe result is recorded after Stop returns.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel, done, unsubscribe := m.cancel, m.done, m.unsubscribe
	m.cancel, m.done, m.unsubscribe = nil, nil, nil
	m.mu.Unlock()

	unsubscribe()
	cancel()
	<-done
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, focus <-chan struct{}, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.opt.Interval)
	defer ticker.Stop()

	m.background(ctx, false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.background(ctx, true)
		case <-focus:
			m.log().Debug().Msg("window focused, probing")
			m.background(ctx, true)
		}
	}
}

// background probes on behalf of the loop and drops the outcome when the loop is shutting down.
func (m *Monitor) background(ctx context.Context, silent bool) {
	if ctx.Err() != nil {
		return
	}
	model := m.d.Models.SelectedModel()
	msg, err := m.check(ctx, model)
	if ctx.Err() != nil {
		return
	}
	m.record(model, msg, err, silent)
}

// Probe checks the currently selected model. A silent probe only updates the badge; a visible
// one also sets or clears the user-visible error.
func (m *Monitor) Probe(ctx context.Context, silent bool) error {
	model := m.d.Models.SelectedModel()
	msg, err := m.check(ctx, model)
	m.record(model, msg, err, silent)
	return err
}

// Retry is the user-initiated probe.
func (m *Monitor) Retry(ctx context.Context) error { return m.Probe(ctx, false) }

// ModelChanged re-probes right away, since availability is per model.
func (m *Monitor) ModelChanged(ctx context.Context) error { return m.Probe(ctx, false) }

func (m *Monitor) check(ctx context.Context, model string) (string, error) {
	if m.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opt.Timeout)
		defer cancel()
	}
	return m.d.Commands.CheckStatus(ctx, model)
}

func (m *Monitor) record(model, msg string, err error, silent bool) {
	ev := m.log().Debug().Str("model", model).Bool("silent", silent)
	if err != nil {
		ev.Str("reason", err.Error()).Msg("probe failed")
		if silent {
			m.d.Board.SetStatus(domain.StatusDisconnected)
		} else {
			m.d.Board.Resolve(domain.StatusDisconnected, err.Error())
		}
		return
	}
	ev.Str("message", msg).Msg("probe ok")
	if silent {
		m.d.Board.SetStatus(domain.StatusConnected)
	} else {
		m.d.Board.Resolve(domain.StatusConnected, "")
	}
}

func (m *Monitor) log() *zerolog.Logger { return &m.d.Log }
