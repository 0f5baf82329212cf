package pipeline

import "context"

// LLMClient abstracts the text-generation provider so stages can be tested
// against deterministic stubs.
type LLMClient interface {
	Complete(ctx context.Context, prompt ChatPrompt) (string, error)
}

// RetrievalClient abstracts the web-search provider used by the research
// stage. Implementations must be safe for concurrent use.
type RetrievalClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]Finding, error)
}

// Renderer turns a final slide plan into a binary presentation artifact.
type Renderer interface {
	Render(ctx context.Context, title string, plan SlidePlan, draft ContentDraft) ([]byte, error)
}

// ChatPrompt is the message bundle sent to the LLM.
type ChatPrompt struct {
	System  string
	User    string
	History []Message
}

// Message carries optional conversation history.
type Message struct {
	Role    string
	Content string
}

// LLMSettings is the base configuration for concrete LLM clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
