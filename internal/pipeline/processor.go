// Package pipeline orchestrates text processing against the streaming
// inference collaborator: it gates each call through the rate limiter, splits
// oversized input into chunks, accumulates the streamed response per attempt,
// retries transient failures with capped exponential backoff, and hands each
// completed buffer to the repair cascade.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"llmrefine/internal/chunk"
	"llmrefine/internal/ratelimit"
	"llmrefine/internal/repair"
	"llmrefine/internal/templates"
)

const (
	defaultMaxRetries    = 3
	defaultTimeout       = 300 * time.Second
	defaultMaxChunkChars = 6000
	maxBackoff           = 5 * time.Second

	retriesExhaustedErrorFormat = "failed to process text after %d retries: %w"
	attemptTimeoutErrorFormat   = "streaming attempt exceeded timeout of %s"

	generationTemperature       = 0.1
	generationTopP              = 0.9
	generationMaxTokens         = 4096
	generationMinTokens         = 1
	generationRepetitionPenalty = 1.1

	generationSystemPrompt = "You are a helpful assistant that formats and analyzes text."
)

// ErrRateLimitExceeded reports that no rate token was available within the
// call's timeout budget. It is never retried internally; the caller decides
// whether to try again later.
var ErrRateLimitExceeded = errors.New("rate limit exceeded, please try again later")

// chunkState tracks one chunk through its attempt lifecycle. Pending,
// Streaming and Retrying are transient; Succeeded and Failed are terminal.
type chunkState int

const (
	chunkPending chunkState = iota
	chunkStreaming
	chunkRetrying
	chunkSucceeded
	chunkFailed
)

func (state chunkState) String() string {
	switch state {
	case chunkPending:
		return "pending"
	case chunkStreaming:
		return "streaming"
	case chunkRetrying:
		return "retrying"
	case chunkSucceeded:
		return "succeeded"
	case chunkFailed:
		return "failed"
	}
	return "unknown"
}

// Options bound the processor's retry, timeout and chunking behavior. Zero
// values fall back to defaults in New.
type Options struct {
	MaxRetries    int
	Timeout       time.Duration
	MaxChunkChars int
}

// Processor owns the rate limiter it constructs and drives the per-chunk
// state machine. One rate token covers an entire Process call, however many
// chunks and attempts it spans.
type Processor struct {
	Client  StreamClient
	Limiter *ratelimit.Limiter
	Options Options
	Logger  *zap.Logger

	// Clock and Sleep are seams for tests; New fills in the real ones.
	Clock func() time.Time
	Sleep func(time.Duration)
}

// New constructs a processor with its own rate limiter, converting
// requestsPerMinute into the bucket's per-second refill rate.
func New(client StreamClient, requestsPerMinute float64, burst int, options Options, logger *zap.Logger) *Processor {
	if options.MaxRetries <= 0 {
		options.MaxRetries = defaultMaxRetries
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.MaxChunkChars <= 0 {
		options.MaxChunkChars = defaultMaxChunkChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		Client:  client,
		Limiter: ratelimit.NewLimiter(requestsPerMinute/60.0, burst),
		Options: options,
		Logger:  logger,
		Clock:   time.Now,
		Sleep:   time.Sleep,
	}
}

// Process sends text through the inference collaborator under the named
// template and returns the recovered structured result. Multi-chunk inputs
// are merged in original order: formatted text is space-joined and the
// metadata of the first chunk wins.
func (processor *Processor) Process(ctx context.Context, text string, templateKey string) (repair.Result, error) {
	template, templateErr := templates.Lookup(templateKey)
	if templateErr != nil {
		return repair.Result{}, templateErr
	}

	acquired, acquireErr := processor.Limiter.AcquireWithin(1, processor.Options.Timeout)
	if acquireErr != nil {
		return repair.Result{}, acquireErr
	}
	if !acquired {
		return repair.Result{}, ErrRateLimitExceeded
	}
	defer processor.Limiter.Release()

	chunks := chunk.Split(text, processor.Options.MaxChunkChars)
	results := make([]repair.Result, 0, len(chunks))
	for index, chunkText := range chunks {
		chunkResult, chunkErr := processor.processChunk(ctx, template, chunkText)
		if chunkErr != nil {
			return repair.Result{}, fmt.Errorf("chunk %d/%d: %w", index+1, len(chunks), chunkErr)
		}
		results = append(results, chunkResult)
	}

	return mergeResults(results), nil
}

// processChunk runs the attempt state machine for a single chunk. Transport,
// timeout and repair-layer failures are treated alike: sleep min(2^n, 5)s and
// retry until MaxRetries attempts are spent.
func (processor *Processor) processChunk(ctx context.Context, template templates.Template, chunkText string) (repair.Result, error) {
	state := chunkPending
	var lastErr error

	for attempt := 0; attempt < processor.Options.MaxRetries; attempt++ {
		if state == chunkRetrying {
			backoff := backoffDelay(attempt)
			processor.Logger.Debug("backing off before retry",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			processor.Sleep(backoff)
		}

		state = processor.transition(state, chunkStreaming)
		result, attemptErr := processor.runAttempt(ctx, template, chunkText)
		if attemptErr == nil {
			processor.transition(state, chunkSucceeded)
			return result, nil
		}
		lastErr = attemptErr
		state = processor.transition(state, chunkRetrying)
	}

	processor.transition(state, chunkFailed)
	return repair.Result{}, fmt.Errorf(retriesExhaustedErrorFormat, processor.Options.MaxRetries, lastErr)
}

// runAttempt issues one streaming request and accumulates the response. The
// timeout is polled between fragment reads, not enforced preemptively: a
// single slow fragment read can overrun the nominal deadline before the check
// fires.
func (processor *Processor) runAttempt(ctx context.Context, template templates.Template, chunkText string) (repair.Result, error) {
	request := StreamRequest{
		Prompt:            renderPrompt(template, chunkText),
		SystemPrompt:      generationSystemPrompt,
		Temperature:       generationTemperature,
		TopP:              generationTopP,
		MaxTokens:         generationMaxTokens,
		MinTokens:         generationMinTokens,
		RepetitionPenalty: generationRepetitionPenalty,
	}

	stream, streamErr := processor.Client.Stream(ctx, request)
	if streamErr != nil {
		return repair.Result{}, streamErr
	}
	defer func() { _ = stream.Close() }()

	var buffer strings.Builder
	startTime := processor.Clock()
	for {
		if processor.Clock().Sub(startTime) > processor.Options.Timeout {
			return repair.Result{}, fmt.Errorf(attemptTimeoutErrorFormat, processor.Options.Timeout)
		}
		fragment, readErr := stream.Next()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return repair.Result{}, readErr
		}
		buffer.WriteString(fragment)
	}

	return repair.Recover(buffer.String(), chunkText), nil
}

func (processor *Processor) transition(from chunkState, to chunkState) chunkState {
	processor.Logger.Debug("chunk state transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	return to
}

func renderPrompt(template templates.Template, chunkText string) string {
	return template.SystemPrompt + "\n\nText to process:\n\n" + chunkText
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(1<<uint(attempt)) * time.Second
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func mergeResults(results []repair.Result) repair.Result {
	if len(results) == 0 {
		return repair.Result{}
	}
	formatted := make([]string, 0, len(results))
	for _, result := range results {
		formatted = append(formatted, result.FormattedText)
	}
	// Merge policy keeps only the first chunk's metadata; later chunks'
	// metadata is discarded rather than aggregated.
	return repair.Result{
		Metadata:      results[0].Metadata,
		FormattedText: strings.Join(formatted, " "),
	}
}
