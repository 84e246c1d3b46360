package pipeline

import "context"

// StreamRequest carries a fully rendered prompt and the fixed generation
// parameters sent with every attempt.
type StreamRequest struct {
	Prompt            string
	SystemPrompt      string
	Temperature       float64
	TopP              float64
	MaxTokens         int
	MinTokens         int
	RepetitionPenalty float64
}

// FragmentStream is a finite, non-restartable sequence of text fragments
// emitted by the inference collaborator. Next returns io.EOF when generation
// completes.
type FragmentStream interface {
	Next() (string, error)
	Close() error
}

// StreamClient issues a streaming inference request. The concrete HTTP client
// lives in internal/replicate; tests substitute fakes.
type StreamClient interface {
	Stream(ctx context.Context, request StreamRequest) (FragmentStream, error)
}
