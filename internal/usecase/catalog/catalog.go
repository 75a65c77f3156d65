// Package catalog holds the static, ordered list of languages offered by the pickers.
package catalog

import (
	"strings"

	"localtranslate/internal/domain"
)

var defaultLanguages = []domain.Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh", Name: "Chinese"},
	{Code: "zh-Hant", Name: "Chinese (Traditional)"},
	{Code: "ar", Name: "Arabic"},
	{Code: "ru", Name: "Russian"},
	{Code: "ko", Name: "Korean"},
	{Code: "hi", Name: "Hindi"},
	{Code: "nl", Name: "Dutch"},
	{Code: "pl", Name: "Polish"},
	{Code: "tr", Name: "Turkish"},
	{Code: "uk", Name: "Ukrainian"},
	{Code: "sv", Name: "Swedish"},
	{Code: "cs", Name: "Czech"},
	{Code: "el", Name: "Greek"},
	{Code: "he", Name: "Hebrew"},
	{Code: "id", Name: "Indonesian"},
	{Code: "th", Name: "Thai"},
	{Code: "vi", Name: "Vietnamese"},
}

type Catalog struct {
	langs []domain.Language
}

// New returns a catalog over langs. The slice is copied; its order is the display order.
func New(langs []domain.Language) *Catalog {
	cp := make([]domain.Language, len(langs))
	copy(cp, langs)
	return &Catalog{langs: cp}
}

// Default returns the built-in catalog.
func Default() *Catalog { return New(defaultLanguages) }

func (c *Catalog) All() []domain.Language {
	out := make([]domain.Language, len(c.langs))
	copy(out, c.langs)
	return out
}

func (c *Catalog) Find(code string) (domain.Language, bool) {
	for _, l := range c.langs {
		if l.Code == code {
			return l, true
		}
	}
	return domain.Language{}, false
}

// DisplayName returns the language name for code, or code itself when unknown.
func (c *Catalog) DisplayName(code string) string {
	if l, ok := c.Find(code); ok {
		return l.Name
	}
	return code
}

// Search returns entries whose name or code contains query, ignoring case, in catalog order.
func (c *Catalog) Search(query string) []domain.Language {
	q := strings.ToLower(query)
	out := make([]domain.Language, 0, len(c.langs))
	for _, l := range c.langs {
		if strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Code), q) {
			out = append(out, l)
		}
	}
	return out
}
