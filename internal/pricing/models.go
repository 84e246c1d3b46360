// Package pricing estimates token usage and processing cost ahead of time so
// callers can budget a run without touching the network.
package pricing

import (
	"fmt"
	"sort"
)

// ModelConfig describes one hosted model's price and context limits. Costs
// are dollars per one million tokens.
type ModelConfig struct {
	ID              string
	Provider        string
	Description     string
	CostPer1MInput  float64
	CostPer1MOutput float64
	MaxInputTokens  int
	MaxOutputTokens int
}

const unknownModelErrorFormat = "model %q not found (run the models list to see available names)"

var modelConfigs = map[string]ModelConfig{
	"llama-2-7b": {
		ID:              "meta/llama-2-7b",
		Provider:        "Meta",
		Description:     "Llama 2 7B base model",
		CostPer1MInput:  0.050,
		CostPer1MOutput: 0.250,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
	"llama-2-7b-chat": {
		ID:              "meta/llama-2-7b-chat",
		Provider:        "Meta",
		Description:     "Llama 2 7B chat model",
		CostPer1MInput:  0.050,
		CostPer1MOutput: 0.250,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
	"llama-2-13b": {
		ID:              "meta/llama-2-13b",
		Provider:        "Meta",
		Description:     "Llama 2 13B base model",
		CostPer1MInput:  0.100,
		CostPer1MOutput: 0.500,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
	"llama-2-70b": {
		ID:              "meta/llama-2-70b",
		Provider:        "Meta",
		Description:     "Llama 2 70B base model",
		CostPer1MInput:  0.650,
		CostPer1MOutput: 2.750,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
	"meta-llama-3-8b": {
		ID:              "meta/llama-3-8b",
		Provider:        "Meta",
		Description:     "Llama 3 8B base model",
		CostPer1MInput:  0.050,
		CostPer1MOutput: 0.250,
		MaxInputTokens:  8192,
		MaxOutputTokens: 8192,
	},
	"meta-llama-3-70b": {
		ID:              "meta/llama-3-70b",
		Provider:        "Meta",
		Description:     "Llama 3 70B base model",
		CostPer1MInput:  0.650,
		CostPer1MOutput: 2.750,
		MaxInputTokens:  8192,
		MaxOutputTokens: 8192,
	},
	"granite-3.0-8b-instruct": {
		ID:              "ibm/granite-3.0-8b-instruct",
		Provider:        "IBM",
		Description:     "IBM Granite 3.0 8B instruct model",
		CostPer1MInput:  0.050,
		CostPer1MOutput: 0.250,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
	"mistral-7b-instruct-v0.2": {
		ID:              "mistralai/mistral-7b-instruct-v0.2",
		Provider:        "Mistral AI",
		Description:     "Mistral 7B v0.2 instruct model",
		CostPer1MInput:  0.050,
		CostPer1MOutput: 0.250,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
	"mixtral-8x7b-instruct-v0.1": {
		ID:              "mistralai/mixtral-8x7b-instruct-v0.1",
		Provider:        "Mistral AI",
		Description:     "Mixtral 8x7B v0.1 instruct model",
		CostPer1MInput:  0.300,
		CostPer1MOutput: 1.000,
		MaxInputTokens:  4096,
		MaxOutputTokens: 4096,
	},
}

// FindModel resolves a model name from the static table.
func FindModel(name string) (ModelConfig, error) {
	modelConfiguration, found := modelConfigs[name]
	if !found {
		return ModelConfig{}, fmt.Errorf(unknownModelErrorFormat, name)
	}
	return modelConfiguration, nil
}

// ModelNames lists the known model names sorted by provider then name.
func ModelNames() []string {
	names := make([]string, 0, len(modelConfigs))
	for name := range modelConfigs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		left, right := modelConfigs[names[i]], modelConfigs[names[j]]
		if left.Provider != right.Provider {
			return left.Provider < right.Provider
		}
		return names[i] < names[j]
	})
	return names
}
