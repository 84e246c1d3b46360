package replicate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	outputEventName = "output"
	errorEventName  = "error"
	doneEventName   = "done"
)

// EventStream reads server-sent events from a prediction stream and yields
// the text fragments carried by output events. The sequence ends with io.EOF
// when the generator emits its done event or the connection closes.
type EventStream struct {
	reader *bufio.Reader
	body   io.Closer
	done   bool
}

func newEventStream(body io.ReadCloser) *EventStream {
	return &EventStream{
		reader: bufio.NewReader(body),
		body:   body,
	}
}

// Next returns the next output fragment. Events other than output are
// consumed internally: done terminates the stream, error aborts it, anything
// else (pings, ids) is skipped.
func (stream *EventStream) Next() (string, error) {
	if stream.done {
		return "", io.EOF
	}
	for {
		eventName, eventData, readErr := stream.readEvent()
		if readErr != nil {
			stream.done = true
			return "", readErr
		}
		switch eventName {
		case outputEventName:
			return eventData, nil
		case doneEventName:
			stream.done = true
			return "", io.EOF
		case errorEventName:
			stream.done = true
			return "", fmt.Errorf(generationFailedErrorFormat, eventData)
		}
	}
}

// readEvent consumes one SSE event block: lines up to a blank separator.
// Multiple data lines are joined with newlines per the SSE wire format.
func (stream *EventStream) readEvent() (string, string, error) {
	var eventName string
	var dataLines []string
	sawField := false

	for {
		line, readErr := stream.reader.ReadString('\n')
		if readErr != nil {
			if readErr == io.EOF && sawField {
				break
			}
			return "", "", readErr
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if sawField {
				break
			}
			continue
		}
		sawField = true
		switch {
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return eventName, strings.Join(dataLines, "\n"), nil
}

// Close releases the underlying connection. Safe to call after EOF.
func (stream *EventStream) Close() error {
	stream.done = true
	return stream.body.Close()
}
