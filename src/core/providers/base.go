package providers

// Provider is the lifecycle every model provider implements.
type Provider interface {
	Initialize() error
	Cleanup() error
}

// Message is a single chat-style turn sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
