package domain

type ModelOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Models is the fixed set of selectable models. The first entry is the default.
var Models = []ModelOption{
	{ID: "translategemma:4b", Label: "TranslateGemma 4B"},
	{ID: "translategemma:12b", Label: "TranslateGemma 12B"},
	{ID: "translategemma:27b", Label: "TranslateGemma 27B"},
}

func DefaultModel() string { return Models[0].ID }

func FindModel(id string) (ModelOption, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelOption{}, false
}

// ModelLabel returns the display label for id, or id itself when it is not enumerated.
func ModelLabel(id string) string {
	if m, ok := FindModel(id); ok {
		return m.Label
	}
	return id
}
