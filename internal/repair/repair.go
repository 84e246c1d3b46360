// Package repair recovers a structured result from the raw text a streaming
// generator produced. The generator is asked for a JSON object carrying
// metadata and a formatted_text field but is not contractually bound to emit
// valid JSON: it may wrap the object in prose, use single quotes or
// Python-style literals, truncate mid-value, or drop fields entirely.
//
// Recovery runs an ordered cascade of increasingly lenient stages. Each stage
// is a pure function over the raw buffer; the first one to succeed wins. The
// final stage cannot fail, so Recover always returns a usable result.
package repair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Metadata is the analysis block of a structured result. All three fields are
// always present in anything returned to a caller; missing fields are
// defaulted, never surfaced as absent.
type Metadata struct {
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
	KeyPoints []string `json:"key_points"`
}

// Result is the canonical output shape: metadata plus the reformatted text.
type Result struct {
	Metadata      Metadata `json:"metadata"`
	FormattedText string   `json:"formatted_text"`
}

// Stage attempts one recovery strategy against the raw buffer.
type Stage func(raw string) (Result, error)

var (
	errNoJSONObject    = errors.New("no parseable JSON object in buffer")
	errNoFieldsMatched = errors.New("neither metadata nor formatted_text located in buffer")

	metadataObjectPattern  = regexp.MustCompile(`"?metadata"?\s*:\s*(\{[^}]*\})`)
	formattedTextPattern   = regexp.MustCompile(`"?formatted_text"?\s*:\s*"([^"]+)"`)
	jsonPunctuationPattern = regexp.MustCompile("[{}\\[\\]\"`]")
	fieldLabelPattern      = regexp.MustCompile(`metadata:|formatted_text:|summary:|tags:|key_points:`)
	// Lazy match up to the first colon after a lead-in phrase. Text whose
	// opening sentence legitimately reads "Your ...:" loses that prefix too;
	// the scrub stage trades precision for never keeping wrapper prose.
	boilerplatePattern    = regexp.MustCompile(`^.*?(Here is|The following|This is|Your).*?:`)
	paragraphBreakPattern = regexp.MustCompile(`([.!?])\s+([A-Z])`)
)

// Recover runs the cascade over raw. fallbackText is the original input chunk;
// it is substituted whenever recovery produces an empty formatted text so the
// caller's content is never dropped.
func Recover(raw string, fallbackText string) Result {
	stages := []Stage{directParse, extractFields, scrubBuffer}
	var result Result
	for _, stage := range stages {
		candidate, stageErr := stage(raw)
		if stageErr == nil {
			result = candidate
			break
		}
	}
	// scrubBuffer never errors, so result is always populated here.
	result.Metadata = defaultMetadata(result.Metadata)
	if strings.TrimSpace(result.FormattedText) == "" {
		result.FormattedText = fallbackText
	}
	return result
}

// directParse normalizes the textual artifacts a generator commonly emits and
// attempts a strict parse of the whole buffer.
func directParse(raw string) (Result, error) {
	normalized := normalizeArtifacts(raw)

	var envelope struct {
		Metadata      map[string]any `json:"metadata"`
		FormattedText string         `json:"formatted_text"`
	}
	if unmarshalErr := json.Unmarshal([]byte(normalized), &envelope); unmarshalErr != nil {
		return Result{}, errNoJSONObject
	}
	return Result{
		Metadata:      coerceMetadata(envelope.Metadata),
		FormattedText: cleanFormattedText(envelope.FormattedText),
	}, nil
}

// extractFields treats metadata and formatted_text as two independently
// recoverable regions of the raw buffer rather than one coherent object.
func extractFields(raw string) (Result, error) {
	metadataMatch := metadataObjectPattern.FindStringSubmatch(raw)
	textMatch := formattedTextPattern.FindStringSubmatch(raw)
	if metadataMatch == nil && textMatch == nil {
		return Result{}, errNoFieldsMatched
	}

	var metadata Metadata
	if metadataMatch != nil {
		var fields map[string]any
		if unmarshalErr := json.Unmarshal([]byte(normalizeArtifacts(metadataMatch[1])), &fields); unmarshalErr == nil {
			metadata = coerceMetadata(fields)
		}
	}

	formattedText := raw
	if textMatch != nil {
		formattedText = strings.TrimSuffix(strings.TrimSpace(textMatch[1]), ",")
		formattedText = strings.Trim(formattedText, `"'`)
	}

	return Result{
		Metadata:      metadata,
		FormattedText: cleanFormattedText(formattedText),
	}, nil
}

// scrubBuffer is the terminal stage: the whole buffer becomes the formatted
// text after aggressive cleanup, and the metadata is fully defaulted.
func scrubBuffer(raw string) (Result, error) {
	return Result{FormattedText: cleanFormattedText(raw)}, nil
}

func normalizeArtifacts(raw string) string {
	replacer := strings.NewReplacer(
		"\n", "",
		"'", `"`,
		"True", "true",
		"False", "false",
		"None", "null",
	)
	return replacer.Replace(raw)
}

// cleanFormattedText strips JSON punctuation leftovers, stray field labels and
// leading generator boilerplate, then re-inserts paragraph breaks where a
// sentence terminator is followed by a capital letter.
func cleanFormattedText(text string) string {
	text = jsonPunctuationPattern.ReplaceAllString(text, "")
	text = fieldLabelPattern.ReplaceAllString(text, "")
	text = boilerplatePattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = paragraphBreakPattern.ReplaceAllString(text, "$1\n\n$2")
	return text
}

func coerceMetadata(fields map[string]any) Metadata {
	var metadata Metadata
	if summary, ok := fields["summary"].(string); ok {
		metadata.Summary = summary
	}
	metadata.Tags = coerceStringSlice(fields["tags"])
	metadata.KeyPoints = coerceStringSlice(fields["key_points"])
	return metadata
}

func coerceStringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if text, ok := item.(string); ok {
			out = append(out, text)
		}
	}
	return out
}

func defaultMetadata(metadata Metadata) Metadata {
	if metadata.Tags == nil {
		metadata.Tags = []string{}
	}
	if metadata.KeyPoints == nil {
		metadata.KeyPoints = []string{}
	}
	return metadata
}
