package replicate

import (
	"context"

	"llmrefine/internal/pipeline"
)

// Adapter adapts pipeline.StreamRequest to the concrete HTTP client.
type Adapter struct {
	Client *Client
}

func (adapter Adapter) Stream(ctx context.Context, request pipeline.StreamRequest) (pipeline.FragmentStream, error) {
	return adapter.Client.Stream(ctx, PredictionInput{
		Prompt:            request.Prompt,
		Temperature:       request.Temperature,
		TopP:              request.TopP,
		MaxTokens:         request.MaxTokens,
		MinTokens:         request.MinTokens,
		RepetitionPenalty: request.RepetitionPenalty,
		SystemPrompt:      request.SystemPrompt,
	})
}

var _ pipeline.StreamClient = Adapter{}
