// Package output persists a recovered structured result as a JSON document,
// a human-readable text rendering, or both.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"llmrefine/internal/fsops"
	"llmrefine/internal/repair"
)

// Format selects which renderings Writer produces.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatBoth Format = "both"
)

const (
	jsonOutputSuffix = "_output.json"
	textOutputSuffix = "_output.txt"

	unknownFormatErrorFormat = "unknown output format %q (expected json, txt or both)"
	directoryPermissions     = 0o755
	filePermissions          = 0o644
)

// ParseFormat validates a format flag value.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatJSON, FormatText, FormatBoth:
		return Format(value), nil
	}
	return "", fmt.Errorf(unknownFormatErrorFormat, value)
}

// Writer renders results into an output directory.
type Writer struct {
	Ops       fsops.Ops
	OutputDir string
}

// Write persists result under the given stem in the requested format(s) and
// returns the paths written.
func (writer Writer) Write(stem string, result repair.Result, format Format) ([]string, error) {
	if mkdirErr := writer.Ops.FS.MkdirAll(writer.OutputDir, directoryPermissions); mkdirErr != nil {
		return nil, fmt.Errorf("create output directory: %w", mkdirErr)
	}

	var written []string
	if format == FormatJSON || format == FormatBoth {
		jsonPath := writer.Ops.FS.Join(writer.OutputDir, stem+jsonOutputSuffix)
		encoded, marshalErr := json.MarshalIndent(result, "", "  ")
		if marshalErr != nil {
			return nil, fmt.Errorf("encode result: %w", marshalErr)
		}
		if writeErr := writer.Ops.FS.WriteFile(jsonPath, encoded, filePermissions); writeErr != nil {
			return nil, fmt.Errorf("write %s: %w", jsonPath, writeErr)
		}
		written = append(written, jsonPath)
	}
	if format == FormatText || format == FormatBoth {
		textPath := writer.Ops.FS.Join(writer.OutputDir, stem+textOutputSuffix)
		if writeErr := writer.Ops.FS.WriteFile(textPath, []byte(RenderText(result)), filePermissions); writeErr != nil {
			return nil, fmt.Errorf("write %s: %w", textPath, writeErr)
		}
		written = append(written, textPath)
	}
	return written, nil
}

// RenderText produces the fixed-section human rendering: a METADATA section
// with Summary, Tags and Key Points subsections, then the formatted text.
func RenderText(result repair.Result) string {
	var builder strings.Builder

	builder.WriteString("METADATA\n")
	builder.WriteString("========\n\n")

	if result.Metadata.Summary != "" {
		builder.WriteString("Summary:\n")
		builder.WriteString("--------\n")
		builder.WriteString(result.Metadata.Summary + "\n\n")
	}
	if len(result.Metadata.Tags) > 0 {
		builder.WriteString("Tags:\n")
		builder.WriteString("-----\n")
		builder.WriteString(strings.Join(result.Metadata.Tags, ", ") + "\n\n")
	}
	if len(result.Metadata.KeyPoints) > 0 {
		builder.WriteString("Key Points:\n")
		builder.WriteString("-----------\n")
		for _, point := range result.Metadata.KeyPoints {
			builder.WriteString("* " + point + "\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString("FORMATTED TEXT\n")
	builder.WriteString("==============\n\n")
	builder.WriteString(result.FormattedText)
	return builder.String()
}
