package core

import (
	"encoding/json"
	"fmt"
)

// ListOrder selects the created_at ordering of list results.
type ListOrder string

const (
	// ListOrderDefault leaves the ordering to the service.
	ListOrderDefault ListOrder = ""
	// ListOrderAscending returns oldest first.
	ListOrderAscending ListOrder = "asc"
	// ListOrderDescending returns newest first.
	ListOrderDescending ListOrder = "desc"
)

// Valid reports whether o is a known ordering (the default included).
func (o ListOrder) Valid() bool {
	switch o {
	case ListOrderDefault, ListOrderAscending, ListOrderDescending:
		return true
	}
	return false
}

// ListPage is the cursor-paged list envelope returned by list endpoints.
type ListPage[T any] struct {
	Object  string `json:"object"`
	Data    []T    `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}

// DeletionStatus is returned by DELETE endpoints.
type DeletionStatus struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// WithFields marshals v and sets fields on top of the resulting JSON object.
// It builds request bodies that combine caller options with values the client
// owns (ids, stream flags).
func WithFields(v any, fields map[string]any) (json.RawMessage, error) {
	members := make(map[string]json.RawMessage)
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		if string(b) != "null" {
			if err := json.Unmarshal(b, &members); err != nil {
				return nil, fmt.Errorf("request body is not an object: %w", err)
			}
		}
	}
	for k, fv := range fields {
		b, err := json.Marshal(fv)
		if err != nil {
			return nil, fmt.Errorf("marshal request field %q: %w", k, err)
		}
		members[k] = b
	}
	return json.Marshal(members)
}
