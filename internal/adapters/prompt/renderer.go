package prompt

import (
	"bytes"
	"text/template"

	"localtranslate/internal/ports"
)

// DefaultTemplate is the TranslateGemma instruction format.
const DefaultTemplate = "You are a professional {{.SrcName}} ({{.SrcLang}}) to {{.TgtName}} ({{.TgtLang}}) translator. " +
	"Your goal is to accurately convey the meaning and nuances of the original {{.SrcName}} text while adhering to " +
	"{{.TgtName}} grammar, vocabulary, and cultural sensitivities.\n\n" +
	"Produce only the {{.TgtName}} translation, without any additional explanations or commentary. " +
	"Please translate the following {{.SrcName}} text into {{.TgtName}}:\n\n\n{{.Text}}"

type Renderer struct {
	tpl *template.Template
}

// New parses body, falling back to DefaultTemplate when body is empty.
func New(body string) (*Renderer, error) {
	if body == "" {
		body = DefaultTemplate
	}
	tpl, err := template.New("prompt").Parse(body)
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl}, nil
}

func (r *Renderer) Render(data ports.PromptData) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
