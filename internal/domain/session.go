package domain

import "errors"

const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "es"

	// SelectedModelKey is the settings key holding the persisted model id.
	SelectedModelKey = "locale.selectedModel"
)

var (
	ErrEmptyText     = errors.New("Please enter some text to translate")
	ErrSameLanguages = errors.New("Source and target languages must be different")
	ErrBusy          = errors.New("a translation is already in progress")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseInFlight
	PhaseSettled
)

func (p Phase) String() string {
	return [...]string{"idle", "validating", "in_flight", "settled"}[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// SessionState is an immutable snapshot of a translation session.
type SessionState struct {
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	Model          string `json:"model"`
	Phase          Phase  `json:"phase"`
	LastError      string `json:"last_error,omitempty"`
}
