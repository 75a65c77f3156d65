package ports

type PromptData struct {
	SrcLang string
	TgtLang string
	SrcName string
	TgtName string
	Text    string
}

type PromptRenderer interface {
	Render(data PromptData) (string, error)
}
