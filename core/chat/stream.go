// ABOUTME: Decoder for the chat collaborator's line-delimited "data:" stream
// ABOUTME: Frames split across lines are held back and completed by the next line

package chat

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	dataPrefix  = "data:"
	doneMarker  = "[DONE]"
	maxLineSize = 1 << 20
)

// Decoder yields content deltas from a chat stream in the order received
type Decoder struct {
	r       *bufio.Reader
	pending string
	done    bool
}

// NewDecoder reads frames from r
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next non-empty content delta. It returns io.EOF after the
// [DONE] sentinel or when the stream closes.
func (d *Decoder) Next() (string, error) {
	for !d.done {
		line, err := d.r.ReadString('\n')
		if line != "" {
			if delta, ok := d.consume(line); ok {
				return delta, nil
			}
		}
		if err == io.EOF {
			d.done = true
			// final flush of a frame that never got its tail
			if delta, ok := d.flush(); ok {
				return delta, nil
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return "", io.EOF
}

func (d *Decoder) consume(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")

	if d.pending != "" {
		if !strings.HasPrefix(line, dataPrefix) {
			candidate := d.pending + "\n" + line
			if delta, ok, valid := parseFrame(candidate); valid {
				d.pending = ""
				return delta, ok
			}
			d.pending = candidate
			if len(d.pending) > maxLineSize {
				d.pending = ""
			}
			return "", false
		}
		// a new frame started; the held-back one can never complete
		d.pending = ""
	}

	if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == doneMarker {
		d.done = true
		return "", false
	}

	delta, ok, valid := parseFrame(payload)
	if !valid {
		d.pending = payload
		return "", false
	}
	return delta, ok
}

func (d *Decoder) flush() (string, bool) {
	if d.pending == "" {
		return "", false
	}
	delta, ok, _ := parseFrame(d.pending)
	d.pending = ""
	return delta, ok
}

// parseFrame decodes one frame. valid is false when payload is not complete JSON.
func parseFrame(payload string) (delta string, ok bool, valid bool) {
	var frame openai.ChatCompletionStreamResponse
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		return "", false, false
	}
	if len(frame.Choices) == 0 || frame.Choices[0].Delta.Content == "" {
		return "", false, true
	}
	return frame.Choices[0].Delta.Content, true, true
}
