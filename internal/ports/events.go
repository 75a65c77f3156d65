package ports

// EventEmitter pushes named events to the frontend.
type EventEmitter interface {
	Emit(name string, payload any)
}

// FocusSource delivers "window regained focus" notifications.
// The returned func detaches fn and must be safe to call more than once.
type FocusSource interface {
	OnFocus(fn func()) (unsubscribe func())
}

// ModelSource returns the currently selected model id.
type ModelSource interface {
	SelectedModel() string
}

const (
	EventSessionChanged   = "session.changed"
	EventConnectionStatus = "connection.status"
	EventSelectorChanged  = "selector.changed"
	EventWindowFocus      = "window:focus"
)
