package llmrefine

import (
	"fmt"

	"llmrefine/internal/fsops"
)

// resolveInputs expands INPUT into the list of text files to work on: a file
// path is returned as-is, a directory is scanned for text files.
func resolveInputs(operations fsops.Ops, inputPath string, recursive bool) ([]string, error) {
	isDirectory, statErr := operations.IsDir(inputPath)
	if statErr != nil {
		return nil, fmt.Errorf("stat input %s: %w", inputPath, statErr)
	}
	if !isDirectory {
		return []string{inputPath}, nil
	}

	inputFiles, listErr := operations.TextFiles(inputPath, recursive)
	if listErr != nil {
		return nil, fmt.Errorf("list input directory %s: %w", inputPath, listErr)
	}
	if len(inputFiles) == 0 {
		return nil, fmt.Errorf(noInputFilesErrorFormat, inputPath)
	}
	return inputFiles, nil
}
