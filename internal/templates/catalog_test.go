package templates_test

import (
	"strings"
	"testing"

	"llmrefine/internal/templates"
)

func TestLookup_KnownKeys(t *testing.T) {
	for _, key := range templates.Keys() {
		template, err := templates.Lookup(key)
		if err != nil {
			t.Fatalf("lookup %q: %v", key, err)
		}
		if template.Key != key {
			t.Fatalf("expected key %q, got %q", key, template.Key)
		}
		if !strings.Contains(template.SystemPrompt, "formatted_text") {
			t.Fatalf("template %q prompt does not describe the response shape", key)
		}
	}
}

func TestLookup_UnknownKeyFails(t *testing.T) {
	if _, err := templates.Lookup("poetic"); err == nil {
		t.Fatalf("expected error for unknown template key")
	}
}

func TestAll_MatchesKeyOrder(t *testing.T) {
	all := templates.All()
	keys := templates.Keys()
	if len(all) != len(keys) {
		t.Fatalf("expected %d templates, got %d", len(keys), len(all))
	}
	for index, template := range all {
		if template.Key != keys[index] {
			t.Fatalf("expected template %d to be %q, got %q", index, keys[index], template.Key)
		}
	}
}
