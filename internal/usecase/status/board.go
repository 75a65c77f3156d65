// Package status holds the connection badge and the user-visible error message shared by
// the connection monitor and the translation session.
package status

import (
	"sync"

	"localtranslate/internal/domain"
)

type Snapshot struct {
	Status domain.ConnectionStatus `json:"status"`
	Error  string                  `json:"error,omitempty"`
	// Version increases on every write.
	Version uint64 `json:"version"`
}

// Board is last-writer-wins: every write replaces what is there, the most recently
// resolved call is authoritative.
type Board struct {
	mu        sync.Mutex
	snap      Snapshot
	nextID    int
	observers map[int]func(Snapshot)
}

func NewBoard() *Board {
	return &Board{observers: map[int]func(Snapshot){}}
}

func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

func (b *Board) Status() domain.ConnectionStatus { return b.Snapshot().Status }

func (b *Board) Error() string { return b.Snapshot().Error }

// SetStatus changes only the badge.
func (b *Board) SetStatus(s domain.ConnectionStatus) {
	b.update(func(sn *Snapshot) { sn.Status = s })
}

// SetError replaces the message; an empty msg clears it.
func (b *Board) SetError(msg string) {
	b.update(func(sn *Snapshot) { sn.Error = msg })
}

// Resolve records the outcome of a probe or translate call as a single write.
func (b *Board) Resolve(s domain.ConnectionStatus, msg string) {
	b.update(func(sn *Snapshot) {
		sn.Status = s
		sn.Error = msg
	})
}

// Subscribe registers fn for every subsequent write. Observers run on the writer's goroutine,
// outside the board lock.
func (b *Board) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.observers, id)
		b.mu.Unlock()
	}
}

func (b *Board) update(fn func(*Snapshot)) {
	b.mu.Lock()
	fn(&b.snap)
	b.snap.Version++
	snap := b.snap
	obs := make([]func(Snapshot), 0, len(b.observers))
	for _, o := range b.observers {
		obs = append(obs, o)
	}
	b.mu.Unlock()
	for _, o := range obs {
		o(snap)
	}
}
