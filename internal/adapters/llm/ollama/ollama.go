package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"localtranslate/internal/domain"
	"localtranslate/internal/ports"
)

const DefaultBaseURL = "http://localhost:11434"

// LanguageNames resolves a language code to the name used in prompts.
type LanguageNames interface {
	DisplayName(code string) string
}

// Client talks to the Ollama HTTP API and implements ports.Commands.
type Client struct {
	BaseURL string
	names   LanguageNames
	prompt  ports.PromptRenderer
	http    *resty.Client
}

func New(baseURL string, timeout time.Duration, names LanguageNames, prompt ports.PromptRenderer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().SetTimeout(timeout)
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), names: names, prompt: prompt, http: c}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	r, err := c.http.R().SetContext(ctx).Get(c.BaseURL + "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("ollama list models: %w", err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("ollama list models: %s; body: %s", r.Status(), r.String())
	}
	var tags tagsResponse
	if err := json.Unmarshal(r.Body(), &tags); err != nil {
		return nil, fmt.Errorf("ollama list models: decode: %w", err)
	}
	out := make([]ports.ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		out = append(out, ports.ModelInfo{Name: m.Name})
	}
	return out, nil
}

// CheckStatus verifies that the server answers and that model is among the installed tags.
func (c *Client) CheckStatus(ctx context.Context, model string) (string, error) {
	r, err := c.http.R().SetContext(ctx).Get(c.BaseURL + "/api/tags")
	if err != nil {
		return "", errors.New("Ollama is not running. Please start Ollama with: ollama serve")
	}
	var tags tagsResponse
	if r.IsError() || json.Unmarshal(r.Body(), &tags) != nil {
		return "", errors.New("Failed to parse Ollama response")
	}
	label := domain.ModelLabel(model)
	for _, m := range tags.Models {
		if strings.HasPrefix(m.Name, model) {
			return label + " is ready", nil
		}
	}
	return "", fmt.Errorf("%s model not found. Please install it with:\n\nollama run %s", label, model)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (c *Client) Translate(ctx context.Context, sourceLang, targetLang, text, model string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("Text cannot be empty")
	}
	prompt, err := c.prompt.Render(ports.PromptData{
		SrcLang: sourceLang,
		TgtLang: targetLang,
		SrcName: c.names.DisplayName(sourceLang),
		TgtName: c.names.DisplayName(targetLang),
		Text:    text,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	body := map[string]any{
		"model":    model,
		"messages": []chatMessage{{Role: "user", Content: prompt}},
		"stream":   false,
	}
	r, err := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json").SetBody(body).Post(c.BaseURL + "/api/chat")
	if err != nil {
		return "", fmt.Errorf("Failed to connect to Ollama. Please ensure Ollama is running and %s is installed.\nError: %v", domain.ModelLabel(model), err)
	}
	if r.IsError() {
		return "", fmt.Errorf("Ollama API returned error: %s. Make sure '%s' model is installed.", r.Status(), model)
	}
	var resp chatResponse
	if err := json.Unmarshal(r.Body(), &resp); err != nil {
		return "", fmt.Errorf("Failed to parse Ollama response: %v", err)
	}
	return strings.TrimSpace(resp.Message.Content), nil
}
