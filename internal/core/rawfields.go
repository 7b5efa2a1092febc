package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// RawFields holds JSON members a DTO does not declare. They are kept verbatim
// on decode and written back on encode.
type RawFields map[string]json.RawMessage

// Get returns the raw value stored under key.
func (r RawFields) Get(key string) (json.RawMessage, bool) {
	v, ok := r[key]
	return v, ok
}

// Set stores value under key, marshaling it to JSON.
func (r *RawFields) Set(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal raw field %q: %w", key, err)
	}
	if *r == nil {
		*r = make(RawFields)
	}
	(*r)[key] = b
	return nil
}

var knownFieldsCache sync.Map // reflect.Type -> map[string]struct{}

// knownFields returns the JSON member names declared by a struct type,
// following embedded structs the same way encoding/json does.
func knownFields(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]struct{})
	}

	names := make(map[string]struct{})
	if t.Kind() == reflect.Struct {
		collectFields(t, names)
	}
	knownFieldsCache.Store(t, names)
	return names
}

func collectFields(t reflect.Type, names map[string]struct{}) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, names)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}
}

// UnmarshalWithRawFields decodes data into v (normally an alias of the DTO
// type so custom methods do not recurse) and stores undeclared members in raw.
func UnmarshalWithRawFields(data []byte, v any, raw *RawFields) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	known := knownFields(reflect.TypeOf(v))
	var extra RawFields
	for k, m := range members {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(RawFields)
		}
		extra[k] = m
	}
	*raw = extra
	return nil
}

// MarshalWithRawFields encodes v (normally an alias of the DTO type) and
// merges raw back in. Declared members win over raw entries of the same name.
func MarshalWithRawFields(v any, raw RawFields) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return b, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return nil, err
	}
	for k, m := range raw {
		if _, ok := members[k]; ok {
			continue
		}
		members[k] = m
	}
	return json.Marshal(members)
}
