package pricing

import (
	"fmt"
	"strings"
)

// charsPerToken is the flat approximation used in place of a real tokenizer;
// four characters per token is conservative for English prose.
const charsPerToken = 4

const inputTooLongErrorFormat = "input text too long (%d tokens), model %s allows at most %d"

// Estimate is the cost projection for one piece of text against one model.
type Estimate struct {
	ModelName             string
	ModelID               string
	Provider              string
	Description           string
	InputTokens           int
	EstimatedOutputTokens int
	InputCost             float64
	OutputCost            float64
	TotalCost             float64
}

// Estimator projects token usage and cost for a fixed model.
type Estimator struct {
	ModelName string
	Model     ModelConfig
}

// NewEstimator builds an estimator for the named model.
func NewEstimator(modelName string) (Estimator, error) {
	modelConfiguration, findErr := FindModel(modelName)
	if findErr != nil {
		return Estimator{}, findErr
	}
	return Estimator{ModelName: modelName, Model: modelConfiguration}, nil
}

// CountTokens approximates the token count of text.
func (estimator Estimator) CountTokens(text string) int {
	return len(text) / charsPerToken
}

// EstimateCost projects the cost of processing text. Output is assumed to run
// about twice the input length, capped at the model's output limit;
// maxOutputTokens (when > 0) caps it further. Input longer than the model's
// context is rejected.
func (estimator Estimator) EstimateCost(text string, maxOutputTokens int) (Estimate, error) {
	inputTokens := estimator.CountTokens(text)
	if inputTokens > estimator.Model.MaxInputTokens {
		return Estimate{}, fmt.Errorf(inputTooLongErrorFormat, inputTokens, estimator.ModelName, estimator.Model.MaxInputTokens)
	}

	estimatedOutputTokens := inputTokens * 2
	if estimatedOutputTokens > estimator.Model.MaxOutputTokens {
		estimatedOutputTokens = estimator.Model.MaxOutputTokens
	}
	if maxOutputTokens > 0 && estimatedOutputTokens > maxOutputTokens {
		estimatedOutputTokens = maxOutputTokens
	}

	inputCost := float64(inputTokens) / 1_000_000 * estimator.Model.CostPer1MInput
	outputCost := float64(estimatedOutputTokens) / 1_000_000 * estimator.Model.CostPer1MOutput

	return Estimate{
		ModelName:             estimator.ModelName,
		ModelID:               estimator.Model.ID,
		Provider:              estimator.Model.Provider,
		Description:           estimator.Model.Description,
		InputTokens:           inputTokens,
		EstimatedOutputTokens: estimatedOutputTokens,
		InputCost:             inputCost,
		OutputCost:            outputCost,
		TotalCost:             inputCost + outputCost,
	}, nil
}

// Render formats an estimate for console display.
func (estimate Estimate) Render() string {
	var builder strings.Builder
	builder.WriteString("Model Information:\n")
	builder.WriteString(fmt.Sprintf("  Provider: %s\n", estimate.Provider))
	builder.WriteString(fmt.Sprintf("  Model: %s\n", estimate.ModelName))
	builder.WriteString(fmt.Sprintf("  Description: %s\n", estimate.Description))
	builder.WriteString(fmt.Sprintf("  Model ID: %s\n", estimate.ModelID))
	builder.WriteString("\nToken Usage Estimate:\n")
	builder.WriteString(fmt.Sprintf("  Input Tokens: %d\n", estimate.InputTokens))
	builder.WriteString(fmt.Sprintf("  Estimated Output Tokens: %d\n", estimate.EstimatedOutputTokens))
	builder.WriteString("\nCost Estimate:\n")
	builder.WriteString(fmt.Sprintf("  Input Cost: $%.6f\n", estimate.InputCost))
	builder.WriteString(fmt.Sprintf("  Output Cost: $%.6f\n", estimate.OutputCost))
	builder.WriteString(fmt.Sprintf("  Total Cost: $%.6f", estimate.TotalCost))
	return builder.String()
}
