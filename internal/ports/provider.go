package ports

import (
	"context"
)

// Commands is the remote-call capability backed by the local model server.
// Errors carry a human-readable reason meant to be shown verbatim.
type Commands interface {
	// CheckStatus reports whether the server is up and model is installed.
	CheckStatus(ctx context.Context, model string) (string, error)
	Translate(ctx context.Context, sourceLang, targetLang, text, model string) (string, error)
}

type ModelInfo struct {
	Name string
}

// ModelLister is implemented by command backends that can enumerate installed models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
