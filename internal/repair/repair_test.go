package repair_test

import (
	"reflect"
	"testing"

	"llmrefine/internal/repair"
)

func TestRecover_WellFormedBufferParsesDirectly(t *testing.T) {
	raw := `{"metadata": {"summary": "A short talk about tides.", "tags": ["ocean", "tides"], "key_points": ["moon drives tides"]}, "formatted_text": "The moon drives the tides."}`

	result := repair.Recover(raw, "fallback")

	if result.Metadata.Summary != "A short talk about tides." {
		t.Fatalf("unexpected summary: %q", result.Metadata.Summary)
	}
	if !reflect.DeepEqual(result.Metadata.Tags, []string{"ocean", "tides"}) {
		t.Fatalf("unexpected tags: %v", result.Metadata.Tags)
	}
	if !reflect.DeepEqual(result.Metadata.KeyPoints, []string{"moon drives tides"}) {
		t.Fatalf("unexpected key points: %v", result.Metadata.KeyPoints)
	}
	if result.FormattedText != "The moon drives the tides." {
		t.Fatalf("unexpected formatted text: %q", result.FormattedText)
	}
}

func TestRecover_PythonLiteralsAndSingleQuotes(t *testing.T) {
	raw := "{'metadata': {'summary': 'S', 'tags': ['a'], 'key_points': []}, 'formatted_text': 'Done.'}"

	result := repair.Recover(raw, "fallback")

	if result.Metadata.Summary != "S" {
		t.Fatalf("expected summary recovered from single-quoted buffer, got %q", result.Metadata.Summary)
	}
	if result.FormattedText != "Done." {
		t.Fatalf("unexpected formatted text: %q", result.FormattedText)
	}
}

func TestRecover_ProseWrappedObjectFallsBackToFieldExtraction(t *testing.T) {
	raw := `Here is the result: {"metadata": {"summary": "S"}, "formatted_text": "Hello world."}`

	result := repair.Recover(raw, "original chunk")

	if result.Metadata.Summary != "S" {
		t.Fatalf("expected summary S, got %q", result.Metadata.Summary)
	}
	if len(result.Metadata.Tags) != 0 || result.Metadata.Tags == nil {
		t.Fatalf("expected empty non-nil tags, got %v", result.Metadata.Tags)
	}
	if len(result.Metadata.KeyPoints) != 0 || result.Metadata.KeyPoints == nil {
		t.Fatalf("expected empty non-nil key points, got %v", result.Metadata.KeyPoints)
	}
	if result.FormattedText != "Hello world." {
		t.Fatalf("unexpected formatted text: %q", result.FormattedText)
	}
}

func TestRecover_TruncatedBufferKeepsTrailingText(t *testing.T) {
	raw := `{"metadata": {"summary": "S", "tags": ["x"]}, "formatted_text": "Partial sentence that was cut`

	result := repair.Recover(raw, "original chunk")

	if result.Metadata.Summary != "S" {
		t.Fatalf("expected summary recovered from truncated buffer, got %q", result.Metadata.Summary)
	}
	if result.FormattedText == "" {
		t.Fatalf("expected non-empty formatted text from truncated buffer")
	}
}

func TestRecover_UnparsableBufferNeverDropsContent(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "just some words the model said"},
		{name: "empty buffer", raw: ""},
		{name: "punctuation soup", raw: `{[""]}`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := repair.Recover(testCase.raw, "the original chunk text")

			if result.FormattedText == "" {
				t.Fatalf("expected non-empty formatted text")
			}
			if result.Metadata.Tags == nil || result.Metadata.KeyPoints == nil {
				t.Fatalf("expected metadata sequences to be defaulted, got %+v", result.Metadata)
			}
		})
	}
}

func TestRecover_StripsBoilerplateAndLabels(t *testing.T) {
	raw := "Here is the formatted version: summary: tags: the actual content"

	result := repair.Recover(raw, "fallback")

	if result.FormattedText != "the actual content" {
		t.Fatalf("expected boilerplate and labels stripped, got %q", result.FormattedText)
	}
}

func TestRecover_InsertsParagraphBreaks(t *testing.T) {
	raw := "one topic ends here. Another topic starts now"

	result := repair.Recover(raw, "fallback")

	if result.FormattedText != "one topic ends here.\n\nAnother topic starts now" {
		t.Fatalf("expected paragraph break at sentence boundary, got %q", result.FormattedText)
	}
}
