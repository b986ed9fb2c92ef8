package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// apiEvent is one event emitted by an ADK agent. Field names differ between
// agent frameworks, so both spellings of the error fields are accepted.
type apiEvent struct {
	Author  string `json:"author"`
	Content *struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	ErrorCode         string `json:"error_code"`
	ErrorMessage      string `json:"error_message"`
	ErrorCodeCamel    string `json:"errorCode"`
	ErrorMessageCamel string `json:"errorMessage"`
}

func (e apiEvent) normalize() Event {
	ev := Event{
		Author:       e.Author,
		ErrorCode:    e.ErrorCode,
		ErrorMessage: e.ErrorMessage,
	}
	if ev.ErrorCode == "" {
		ev.ErrorCode = e.ErrorCodeCamel
	}
	if ev.ErrorMessage == "" {
		ev.ErrorMessage = e.ErrorMessageCamel
	}
	if e.Content != nil {
		var text strings.Builder
		for _, part := range e.Content.Parts {
			text.WriteString(part.Text)
		}
		ev.Text = text.String()
	}
	return ev
}

// bodyReader concatenates the payloads of a streamed HttpBody response
type bodyReader struct {
	stream aiplatformpb.ReasoningEngineExecutionService_StreamQueryReasoningEngineClient
	buf    []byte
}

func (r *bodyReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		chunk, err := r.stream.Recv()
		if err != nil {
			return 0, err
		}
		r.buf = chunk.GetData()
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// StreamQuery sends one message to the agent and yields the events it
// streams back. Events are JSON documents that may span or share chunks.
func (c *Client) StreamQuery(ctx context.Context, id, userID, sessionID, message string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		name, err := c.resolver.Agent(id)
		if err != nil {
			yield(Event{}, err)
			return
		}

		input, err := structpb.NewStruct(map[string]any{
			"user_id":    userID,
			"session_id": sessionID,
			"message":    message,
		})
		if err != nil {
			yield(Event{}, fmt.Errorf("stream query: %w", err))
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stream, err := c.execution.StreamQueryReasoningEngine(ctx, &aiplatformpb.StreamQueryReasoningEngineRequest{
			Name:        name,
			Input:       input,
			ClassMethod: "async_stream_query",
		})
		if err != nil {
			yield(Event{}, fmt.Errorf("stream query: %w", fromStatus(ctx, err)))
			return
		}

		dec := json.NewDecoder(&bodyReader{stream: stream})
		for {
			var raw apiEvent
			err := dec.Decode(&raw)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var syntaxErr *json.SyntaxError
				if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
					yield(Event{}, fmt.Errorf("decode event: %w", err))
				} else {
					yield(Event{}, fmt.Errorf("read stream: %w", fromStatus(ctx, err)))
				}
				return
			}
			if !yield(raw.normalize(), nil) {
				return
			}
		}
	}
}
