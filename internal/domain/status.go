package domain

// ConnectionStatus is the health badge for the model server and the selected model.
type ConnectionStatus int

const (
	StatusUnknown ConnectionStatus = iota
	StatusConnected
	StatusDisconnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

func (s ConnectionStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
