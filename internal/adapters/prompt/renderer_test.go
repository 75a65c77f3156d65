package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtranslate/internal/ports"
)

func TestDefaultTemplate(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	out, err := r.Render(ports.PromptData{SrcLang: "en", TgtLang: "es", SrcName: "English", TgtName: "Spanish", Text: "Hello"})
	require.NoError(t, err)
	assert.Contains(t, out, "You are a professional English (en) to Spanish (es) translator.")
	assert.Contains(t, out, "Produce only the Spanish translation")
	assert.Contains(t, out, "Please translate the following English text into Spanish:\n\n\nHello")
}

func TestCustomTemplate(t *testing.T) {
	r, err := New("{{.SrcLang}}->{{.TgtLang}}: {{.Text}}")
	require.NoError(t, err)
	out, err := r.Render(ports.PromptData{SrcLang: "de", TgtLang: "fr", Text: "Hallo"})
	require.NoError(t, err)
	assert.Equal(t, "de->fr: Hallo", out)
}

func TestInvalidTemplate(t *testing.T) {
	_, err := New("{{.Text")
	assert.Error(t, err)
}
