package domain

// Language is a catalog entry. Code is the stable identifier sent to the model server.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
