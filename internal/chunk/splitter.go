// Package chunk splits long input text into bounded segments that can be
// submitted to the inference endpoint independently and recombined in order.
package chunk

import (
	"strings"
	"unicode/utf8"
)

const sentenceTerminators = ".!?"

// Split divides text into chunks of at most maxChunkChars characters. Text
// that already fits is returned unchanged as a single chunk. Longer text is
// cut at the friendliest boundary available inside each window, searching
// backward from the hard limit: a sentence terminator followed by a space,
// then a newline, then a plain space, then a hard cut mid-word. No characters
// are added or dropped: concatenating the chunks reproduces the input.
func Split(text string, maxChunkChars int) []string {
	if maxChunkChars <= 0 {
		maxChunkChars = len(text)
	}
	if len(text) <= maxChunkChars {
		return []string{text}
	}

	var chunks []string
	position := 0
	for position < len(text) {
		remaining := len(text) - position
		if remaining <= maxChunkChars {
			chunks = append(chunks, text[position:])
			break
		}

		window := text[position : position+maxChunkChars]
		cut := breakPoint(window)
		// A hard cut can land inside a multi-byte rune; back it up to the
		// rune's start so no chunk carries torn UTF-8.
		for cut > 1 && !utf8.RuneStart(text[position+cut]) {
			cut--
		}
		chunks = append(chunks, text[position:position+cut])
		position += cut
	}
	return chunks
}

// breakPoint returns the cut offset inside window, always in (0, len(window)]
// so the caller makes forward progress on every iteration.
func breakPoint(window string) int {
	if index := lastSentenceEnd(window); index > 0 {
		return index + 1
	}
	if index := strings.LastIndexByte(window, '\n'); index > 0 {
		return index + 1
	}
	if index := strings.LastIndexByte(window, ' '); index > 0 {
		return index + 1
	}
	return len(window)
}

// lastSentenceEnd finds the last sentence terminator in window that is
// followed by a space, returning the terminator's index or -1.
func lastSentenceEnd(window string) int {
	for index := len(window) - 2; index >= 0; index-- {
		if window[index+1] == ' ' && strings.IndexByte(sentenceTerminators, window[index]) >= 0 {
			return index
		}
	}
	return -1
}
