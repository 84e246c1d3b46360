// Package templates holds the static catalog of instruction prompts used to
// steer the model toward the structured metadata + formatted_text response.
package templates

import "fmt"

const unknownTemplateErrorFormat = "template %q not found (available: default, academic, technical, business)"

// Template carries the system prompt rendered in front of each chunk.
type Template struct {
	Key          string
	Description  string
	SystemPrompt string
}

const responseShapeInstructions = `Return a JSON object with this exact structure:
{
  "metadata": {
    "summary": "2-3 sentence summary",
    "tags": ["tag1", "tag2", "tag3"],
    "key_points": ["point1", "point2", "point3"]
  },
  "formatted_text": "THE PROPERLY FORMATTED TEXT"
}

CRITICAL: the formatted_text must contain ALL original words in the same order. Do not put raw JSON or metadata inside the text.`

var catalog = map[string]Template{
	"default": {
		Key:         "default",
		Description: "Standard transcript formatting with general analysis",
		SystemPrompt: `You are a professional transcript editor. Your MOST IMPORTANT rule is to PRESERVE ALL ORIGINAL CONTENT: do not remove or significantly alter anything from the original transcript.

1. ANALYZE THE TEXT: write a 2-3 sentence summary, create 5-10 relevant tags, extract 3-5 key points.
2. FORMAT THE TRANSCRIPT while preserving all content: break the text into logical paragraphs, add proper punctuation and capitalization, add periods at natural speech pauses, start new paragraphs for new topics.

` + responseShapeInstructions,
	},
	"academic": {
		Key:         "academic",
		Description: "Academic-style formatting with scholarly analysis",
		SystemPrompt: `You are a professional academic editor. PART 1 - METADATA: generate an academic summary (2-3 sentences), 5-10 academic tags, and 3-5 key scholarly points. PART 2 - FORMATTING: preserve every original word, fix grammar and punctuation, format dialogue with quotation marks, structure the text into clear sections with paragraph breaks.

` + responseShapeInstructions,
	},
	"technical": {
		Key:         "technical",
		Description: "Technical documentation style formatting",
		SystemPrompt: `You are a professional technical editor. PART 1 - METADATA: generate a technical summary (2-3 sentences), 5-10 technical tags, and 3-5 key technical points. PART 2 - FORMATTING: preserve every original word, fix grammar and punctuation, format code references consistently, use consistent capitalization and clear paragraph breaks.

` + responseShapeInstructions,
	},
	"business": {
		Key:         "business",
		Description: "Business-style formatting",
		SystemPrompt: `You are a professional business editor. PART 1 - METADATA: generate a business summary (2-3 sentences), 5-10 business tags, and 3-5 key business points. PART 2 - FORMATTING: preserve every original word, fix grammar and punctuation, structure the text into clear sections with proper paragraph breaks and consistent alignment.

` + responseShapeInstructions,
	},
}

// Lookup resolves a template by key. An unknown key is a configuration error
// surfaced before any network request is made.
func Lookup(key string) (Template, error) {
	template, found := catalog[key]
	if !found {
		return Template{}, fmt.Errorf(unknownTemplateErrorFormat, key)
	}
	return template, nil
}

// Keys lists the catalog keys in stable order for CLI display and flag help.
func Keys() []string {
	return []string{"default", "academic", "technical", "business"}
}

// All returns the catalog entries in the order reported by Keys.
func All() []Template {
	keys := Keys()
	templates := make([]Template, 0, len(keys))
	for _, key := range keys {
		templates = append(templates, catalog[key])
	}
	return templates
}
