// Package sse decodes text/event-stream bodies.
package sse

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// MaxEventSize bounds a single line of the stream.
const MaxEventSize = 4 << 20

// Event is one dispatched server-sent event.
type Event struct {
	// Event is the event type; empty means "message".
	Event string
	Data  []byte
	ID    string
	Retry int
}

// Decoder reads events from a stream.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxEventSize)
	return &Decoder{scanner: s}
}

// Next returns the next event. It returns io.EOF once the stream ends
// without a pending event.
func (d *Decoder) Next() (Event, error) {
	var (
		ev      Event
		data    bytes.Buffer
		hasData bool
		pending bool
	)

	for d.scanner.Scan() {
		line := bytes.TrimSuffix(d.scanner.Bytes(), []byte("\r"))

		if len(line) == 0 {
			if !pending {
				continue
			}
			ev.Data = bytes.Clone(data.Bytes())
			return ev, nil
		}
		if line[0] == ':' {
			continue
		}

		field, value, found := bytes.Cut(line, []byte(":"))
		if found {
			value = bytes.TrimPrefix(value, []byte(" "))
		}

		switch string(field) {
		case "event":
			ev.Event = string(value)
			pending = true
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.Write(value)
			hasData = true
			pending = true
		case "id":
			ev.ID = string(value)
			pending = true
		case "retry":
			if n, err := strconv.Atoi(string(value)); err == nil {
				ev.Retry = n
			}
		}
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	if pending {
		ev.Data = bytes.Clone(data.Bytes())
		return ev, nil
	}
	return Event{}, io.EOF
}
