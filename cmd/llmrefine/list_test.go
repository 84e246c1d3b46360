package llmrefine

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplatesCommand_ListsCatalog(t *testing.T) {
	command := newTemplatesCommand()
	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)

	if err := command.Execute(); err != nil {
		t.Fatalf("execute templates command: %v", err)
	}

	listing := outputBuffer.String()
	for _, key := range []string{"default", "academic", "technical", "business"} {
		if !strings.Contains(listing, key) {
			t.Fatalf("expected listing to contain %q:\n%s", key, listing)
		}
	}
}

func TestModelsCommand_ListsPricing(t *testing.T) {
	command := newModelsCommand()
	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)

	if err := command.Execute(); err != nil {
		t.Fatalf("execute models command: %v", err)
	}

	listing := outputBuffer.String()
	if !strings.Contains(listing, "llama-2-7b-chat") {
		t.Fatalf("expected listing to contain llama-2-7b-chat:\n%s", listing)
	}
	if !strings.Contains(listing, "per 1M in/out") {
		t.Fatalf("expected listing to contain pricing column:\n%s", listing)
	}
}
