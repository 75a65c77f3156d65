package factory

import (
	"fmt"

	"localtranslate/internal/adapters/llm/ollama"
	"localtranslate/internal/adapters/prompt"
	"localtranslate/internal/config"
)

// FromConfig returns the Ollama-backed command client for cfg.
func FromConfig(cfg *config.Config, names ollama.LanguageNames) (*ollama.Client, error) {
	pr, err := prompt.New(cfg.Prompt.Template)
	if err != nil {
		return nil, fmt.Errorf("prompt template: %w", err)
	}
	return ollama.New(cfg.Ollama.BaseURL, cfg.Ollama.Timeout, names, pr), nil
}
