// Package forward holds the two strategies entity-accepting operations use
// to turn an entity into the identifier its operation is keyed by.
package forward

import (
	"iter"

	"aisdk/internal/core"
)

// PassThrough returns id(e), or "" when e is nil. Nothing is checked here:
// the identifier operation receiving the value rejects an empty one.
func PassThrough[E any](e *E, id func(*E) string) string {
	if e == nil {
		return ""
	}
	return id(e)
}

// EagerValidate returns id(e), failing with an invalid-argument error naming
// param when e is nil so the operation is never reached.
func EagerValidate[E any](param string, e *E, id func(*E) string) (string, error) {
	if err := core.RequireNotNil(param, e); err != nil {
		return "", err
	}
	return id(e), nil
}

// EagerValidatePair is EagerValidate for operations keyed by a parent and a
// child identifier read from the same entity.
func EagerValidatePair[E any](param string, e *E, parent, id func(*E) string) (string, string, error) {
	if err := core.RequireNotNil(param, e); err != nil {
		return "", "", err
	}
	return parent(e), id(e), nil
}

// IDs lazily maps entities to their identifiers in order. Nil entities
// yield "".
func IDs[E any](entities []*E, id func(*E) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range entities {
			if !yield(PassThrough(e, id)) {
				return
			}
		}
	}
}
