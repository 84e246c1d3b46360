// Package replicate is a minimal HTTP client for Replicate's prediction API,
// covering only what the pipeline needs: token verification at construction
// and server-sent-event streaming of a single prediction.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL           = "https://api.replicate.com/v1"
	defaultModelVersion      = "meta/llama-2-7b-chat:13c3cdee13ee059ab779f0291d29054dab00a47dad8261375654de5540165fb0"
	tokenVerificationTimeout = 10 * time.Second

	missingTokenErrorMessage      = "missing API token"
	verifyTokenErrorFormat        = "verify API token: %w"
	verifyTokenStatusErrorFormat  = "verify API token: account endpoint returned status %d"
	createPredictionErrorFormat   = "create prediction: %w"
	predictionStatusErrorFormat   = "create prediction: http %d: %s"
	missingStreamURLErrorMessage  = "prediction response carries no stream URL"
	openStreamErrorFormat         = "open prediction stream: %w"
	streamStatusErrorFormat       = "open prediction stream: http %d"
	generationFailedErrorFormat   = "generation failed: %s"
	truncatedBodyPreviewByteCount = 512
)

// PredictionInput mirrors the generation parameters the inference endpoint
// accepts alongside the rendered prompt.
type PredictionInput struct {
	Prompt            string  `json:"prompt"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	MaxTokens         int     `json:"max_tokens"`
	MinTokens         int     `json:"min_tokens"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	SystemPrompt      string  `json:"system_prompt"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
	Stream  bool            `json:"stream"`
}

type predictionResponse struct {
	ID   string `json:"id"`
	URLs struct {
		Stream string `json:"stream"`
		Get    string `json:"get"`
	} `json:"urls"`
}

// Client talks to the Replicate HTTP API. Construct it with NewClient so the
// token is verified before any prediction is attempted.
type Client struct {
	HTTPBaseURL  string
	APIToken     string
	ModelVersion string
	HTTPClient   *http.Client
}

// NewClient builds a client and verifies the API token against the account
// endpoint. A missing token or a failing verification is a fatal
// construction-time error: no prediction is ever attempted with bad
// credentials.
func NewClient(apiToken string, baseURL string, modelVersion string) (*Client, error) {
	if apiToken == "" {
		return nil, errors.New(missingTokenErrorMessage)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if modelVersion == "" {
		modelVersion = defaultModelVersion
	}
	client := &Client{
		HTTPBaseURL:  baseURL,
		APIToken:     apiToken,
		ModelVersion: modelVersion,
		HTTPClient:   &http.Client{},
	}
	if verifyErr := client.verifyToken(); verifyErr != nil {
		return nil, verifyErr
	}
	return client, nil
}

func (client *Client) verifyToken() error {
	verificationContext, cancel := context.WithTimeout(context.Background(), tokenVerificationTimeout)
	defer cancel()

	httpRequest, buildErr := http.NewRequestWithContext(verificationContext, http.MethodGet, client.HTTPBaseURL+"/account", nil)
	if buildErr != nil {
		return fmt.Errorf(verifyTokenErrorFormat, buildErr)
	}
	httpRequest.Header.Set("Authorization", "Token "+client.APIToken)

	httpResponse, httpErr := client.HTTPClient.Do(httpRequest)
	if httpErr != nil {
		return fmt.Errorf(verifyTokenErrorFormat, httpErr)
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(httpResponse.Body)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return fmt.Errorf(verifyTokenStatusErrorFormat, httpResponse.StatusCode)
	}
	return nil
}

// Stream creates a prediction and returns the live event stream for it. The
// returned stream is finite and non-restartable; the caller must drain or
// close it.
func (client *Client) Stream(ctx context.Context, input PredictionInput) (*EventStream, error) {
	requestBytes, marshalErr := json.Marshal(predictionRequest{
		Version: client.ModelVersion,
		Input:   input,
		Stream:  true,
	})
	if marshalErr != nil {
		return nil, fmt.Errorf(createPredictionErrorFormat, marshalErr)
	}

	httpRequest, buildErr := http.NewRequestWithContext(ctx, http.MethodPost, client.HTTPBaseURL+"/predictions", bytes.NewReader(requestBytes))
	if buildErr != nil {
		return nil, fmt.Errorf(createPredictionErrorFormat, buildErr)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Authorization", "Token "+client.APIToken)

	httpResponse, httpErr := client.HTTPClient.Do(httpRequest)
	if httpErr != nil {
		return nil, fmt.Errorf(createPredictionErrorFormat, httpErr)
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(httpResponse.Body)

	bodyBytes, readErr := io.ReadAll(httpResponse.Body)
	if readErr != nil {
		return nil, fmt.Errorf(createPredictionErrorFormat, readErr)
	}
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return nil, fmt.Errorf(predictionStatusErrorFormat, httpResponse.StatusCode, truncateForLog(string(bodyBytes), truncatedBodyPreviewByteCount))
	}

	var prediction predictionResponse
	if decodeErr := json.Unmarshal(bodyBytes, &prediction); decodeErr != nil {
		return nil, fmt.Errorf(createPredictionErrorFormat, decodeErr)
	}
	if prediction.URLs.Stream == "" {
		return nil, errors.New(missingStreamURLErrorMessage)
	}

	return client.openStream(ctx, prediction.URLs.Stream)
}

func (client *Client) openStream(ctx context.Context, streamURL string) (*EventStream, error) {
	httpRequest, buildErr := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if buildErr != nil {
		return nil, fmt.Errorf(openStreamErrorFormat, buildErr)
	}
	httpRequest.Header.Set("Accept", "text/event-stream")
	httpRequest.Header.Set("Cache-Control", "no-store")
	httpRequest.Header.Set("Authorization", "Token "+client.APIToken)

	httpResponse, httpErr := client.HTTPClient.Do(httpRequest)
	if httpErr != nil {
		return nil, fmt.Errorf(openStreamErrorFormat, httpErr)
	}
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		_ = httpResponse.Body.Close()
		return nil, fmt.Errorf(streamStatusErrorFormat, httpResponse.StatusCode)
	}

	return newEventStream(httpResponse.Body), nil
}

func truncateForLog(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
