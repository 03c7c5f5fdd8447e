package llm

// chatRequest is the body of a chat completions call.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Message is one chat turn sent to or received from the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type choice struct {
	Message Message `json:"message"`
}

type chatResponse struct {
	Choices []choice `json:"choices"`
}

// apiError is the provider's error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
