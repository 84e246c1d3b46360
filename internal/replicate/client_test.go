package replicate_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"llmrefine/internal/replicate"
)

func TestNewClientMissingTokenFails(t *testing.T) {
	if _, err := replicate.NewClient("", "http://unused.test", ""); err == nil {
		t.Fatalf("expected error for missing API token")
	}
}

func TestNewClientVerifiesToken(t *testing.T) {
	var seenAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/account" {
			t.Fatalf("unexpected path %s", request.URL.Path)
		}
		seenAuthorization = request.Header.Get("Authorization")
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := replicate.NewClient("secret", server.URL, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client == nil {
		t.Fatalf("expected client")
	}
	if seenAuthorization != "Token secret" {
		t.Fatalf("expected token auth header, got %q", seenAuthorization)
	}
}

func TestNewClientRejectsBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if _, err := replicate.NewClient("bad", server.URL, ""); err == nil {
		t.Fatalf("expected error for rejected token")
	}
}

func streamingServer(t *testing.T, events string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/account", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/predictions", func(writer http.ResponseWriter, request *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
			t.Errorf("decode prediction request: %v", err)
		}
		writer.Header().Set("Content-Type", "application/json")
		response := map[string]any{
			"id": "pred-1",
			"urls": map[string]any{
				"stream": server.URL + "/stream/pred-1",
			},
		}
		if err := json.NewEncoder(writer).Encode(response); err != nil {
			t.Errorf("encode prediction response: %v", err)
		}
	})
	mux.HandleFunc("/stream/pred-1", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(writer, events)
	})
	server = httptest.NewServer(mux)
	return server
}

func TestStreamYieldsOutputFragments(t *testing.T) {
	events := "event: output\ndata: Hello \n\nevent: output\ndata: world.\n\nevent: done\ndata: {}\n\n"
	server := streamingServer(t, events)
	defer server.Close()

	client, err := replicate.NewClient("secret", server.URL, "owner/model:version")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	stream, err := client.Stream(context.Background(), replicate.PredictionInput{Prompt: "p"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer func() { _ = stream.Close() }()

	var fragments []string
	for {
		fragment, readErr := stream.Next()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			t.Fatalf("Next: %v", readErr)
		}
		fragments = append(fragments, fragment)
	}

	joined := strings.Join(fragments, "")
	if joined != "Hello world." {
		t.Fatalf("expected accumulated fragments %q, got %q", "Hello world.", joined)
	}
}

func TestStreamSurfacesGenerationError(t *testing.T) {
	events := "event: output\ndata: partial\n\nevent: error\ndata: model exploded\n\n"
	server := streamingServer(t, events)
	defer server.Close()

	client, err := replicate.NewClient("secret", server.URL, "owner/model:version")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	stream, err := client.Stream(context.Background(), replicate.PredictionInput{Prompt: "p"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer func() { _ = stream.Close() }()

	if _, readErr := stream.Next(); readErr != nil {
		t.Fatalf("first Next: %v", readErr)
	}
	_, readErr := stream.Next()
	if readErr == nil || !strings.Contains(readErr.Error(), "model exploded") {
		t.Fatalf("expected generation error, got %v", readErr)
	}
}

func TestStreamPropagatesHTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/account", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/predictions", func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "quota exhausted", http.StatusPaymentRequired)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := replicate.NewClient("secret", server.URL, "owner/model:version")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, streamErr := client.Stream(context.Background(), replicate.PredictionInput{Prompt: "p"}); streamErr == nil {
		t.Fatalf("expected error from prediction endpoint")
	}
}

func TestStreamEmitsFragmentsBeforeEOFOnTruncatedConnection(t *testing.T) {
	// No done event: connection just ends after the fragments.
	events := "event: output\ndata: only part\n\n"
	server := streamingServer(t, events)
	defer server.Close()

	client, err := replicate.NewClient("secret", server.URL, "owner/model:version")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	stream, err := client.Stream(context.Background(), replicate.PredictionInput{Prompt: "p"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer func() { _ = stream.Close() }()

	fragment, readErr := stream.Next()
	if readErr != nil {
		t.Fatalf("Next: %v", readErr)
	}
	if fragment != "only part" {
		t.Fatalf("unexpected fragment %q", fragment)
	}
	if _, readErr = stream.Next(); !errors.Is(readErr, io.EOF) {
		t.Fatalf("expected io.EOF after truncated stream, got %v", readErr)
	}
}
