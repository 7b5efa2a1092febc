package sse

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, d *Decoder) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestDecoder_RunEvents(t *testing.T) {
	stream := "event: thread.run.created\n" +
		"data: {\"id\":\"run_1\"}\n\n" +
		": keep-alive\n\n" +
		"event: thread.message.delta\r\n" +
		"data: {\"delta\":1}\r\n\r\n" +
		"event: done\n" +
		"data: [DONE]\n\n"

	events := readAll(t, NewDecoder(strings.NewReader(stream)))
	require.Len(t, events, 3)
	assert.Equal(t, "thread.run.created", events[0].Event)
	assert.JSONEq(t, `{"id":"run_1"}`, string(events[0].Data))
	assert.Equal(t, "thread.message.delta", events[1].Event)
	assert.Equal(t, "done", events[2].Event)
	assert.Equal(t, "[DONE]", string(events[2].Data))
}

func TestDecoder_MultiLineDataAndFields(t *testing.T) {
	stream := "id: 7\nretry: 1500\ndata: first\ndata:second\n\n"
	events := readAll(t, NewDecoder(strings.NewReader(stream)))
	require.Len(t, events, 1)
	assert.Equal(t, "first\nsecond", string(events[0].Data))
	assert.Equal(t, "7", events[0].ID)
	assert.Equal(t, 1500, events[0].Retry)
	assert.Empty(t, events[0].Event)
}

func TestDecoder_TrailingEventWithoutBlankLine(t *testing.T) {
	events := readAll(t, NewDecoder(strings.NewReader("data: tail")))
	require.Len(t, events, 1)
	assert.Equal(t, "tail", string(events[0].Data))
}

func TestDecoder_Empty(t *testing.T) {
	_, err := NewDecoder(strings.NewReader("\n\n: only comments\n\n")).Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestEncoder_RoundTrip(t *testing.T) {
	var buf strings.Builder
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(Event{Event: "thread.run.created", Data: []byte(`{"id":"run_1"}`)}))
	require.NoError(t, enc.Encode(Event{ID: "2", Data: []byte("line one\nline two")}))
	require.NoError(t, enc.Encode(Event{Event: "done", Data: []byte("[DONE]")}))

	events := readAll(t, NewDecoder(strings.NewReader(buf.String())))
	require.Len(t, events, 3)
	assert.Equal(t, "thread.run.created", events[0].Event)
	assert.Equal(t, "line one\nline two", string(events[1].Data))
	assert.Equal(t, "2", events[1].ID)
	assert.Equal(t, "[DONE]", string(events[2].Data))
}
