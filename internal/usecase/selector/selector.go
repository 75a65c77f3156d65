// Package selector implements the searchable language picker.
package selector

import (
	"errors"
	"sync"

	"localtranslate/internal/domain"
	"localtranslate/internal/usecase/catalog"
)

var ErrDisabled = errors.New("selector is disabled")

// View is what the frontend renders for one picker.
type View struct {
	Value     string            `json:"value"`
	Label     string            `json:"label"`
	Open      bool              `json:"open"`
	Query     string            `json:"query"`
	Disabled  bool              `json:"disabled"`
	Options   []domain.Language `json:"options"`
	NoResults bool              `json:"no_results"`
}

type Selector struct {
	catalog  *catalog.Catalog
	onSelect func(code string) error

	mu       sync.Mutex
	value    string
	disabled bool
	open     bool
	query    string
}

// New builds a picker showing value. onSelect may reject a choice by returning an error;
// the picker then keeps its value.
func New(c *catalog.Catalog, value string, disabled bool, onSelect func(code string) error) *Selector {
	return &Selector{catalog: c, value: value, disabled: disabled, onSelect: onSelect}
}

// ToggleOpen flips the open state. Opening always starts with an empty query.
func (s *Selector) ToggleOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return
	}
	s.open = !s.open
	if s.open {
		s.query = ""
	}
}

func (s *Selector) SetQuery(text string) {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()
}

// Select reports code to the selection callback and closes the picker. The value changes
// only when the picker is enabled and the callback accepts code.
func (s *Selector) Select(code string) error {
	s.mu.Lock()
	disabled := s.disabled
	s.mu.Unlock()
	if disabled {
		s.Dismiss()
		return ErrDisabled
	}
	if s.onSelect != nil {
		if err := s.onSelect(code); err != nil {
			s.Dismiss()
			return err
		}
	}
	s.mu.Lock()
	s.value = code
	s.open = false
	s.mu.Unlock()
	return nil
}

// Dismiss closes the picker and keeps the current value.
func (s *Selector) Dismiss() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Selector) SetValue(code string) {
	s.mu.Lock()
	s.value = code
	s.mu.Unlock()
}

func (s *Selector) SetDisabled(disabled bool) {
	s.mu.Lock()
	s.disabled = disabled
	s.mu.Unlock()
}

func (s *Selector) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *Selector) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Selector) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Selector) View() View {
	s.mu.Lock()
	v := View{Value: s.value, Open: s.open, Query: s.query, Disabled: s.disabled}
	s.mu.Unlock()
	v.Label = s.catalog.DisplayName(v.Value)
	v.Options = s.catalog.Search(v.Query)
	v.NoResults = len(v.Options) == 0
	return v
}
