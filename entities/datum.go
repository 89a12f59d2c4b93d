package entities

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Datum is the tagged union of everything a push frame can carry: a
// message, an event, a sync message, or an unsupported payload. TypeChain
// returns the datum's dispatch ancestry, most-specific type first,
// standing in for the reflection-based MRO walk a language with runtime
// class hierarchies would use (§9 of the originating design notes).
type Datum interface {
	isDatum()
	TypeChain() []reflect.Type
}

// UnsupportedDatum is returned for a push whose "type" field does not
// match any known message, event, or sync-message variant.
type UnsupportedDatum struct {
	Type string
	Raw  json.RawMessage
}

var unsupportedDatumType = reflect.TypeOf(UnsupportedDatum{})

func (UnsupportedDatum) isDatum() {}
func (u UnsupportedDatum) TypeChain() []reflect.Type {
	return []reflect.Type{unsupportedDatumType}
}

type typeTag struct {
	Type string `json:"type"`
}

// ParseDatum classifies a push payload by its "type" field and decodes it
// into the matching concrete struct, falling back to UnsupportedDatum.
func ParseDatum(raw json.RawMessage) (Datum, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("lightq/entities: parse datum tag: %w", err)
	}
	if ctor, ok := messageConstructors[tag.Type]; ok {
		return ctor(raw)
	}
	if ctor, ok := eventConstructors[tag.Type]; ok {
		return ctor(raw)
	}
	if ctor, ok := syncMessageConstructors[tag.Type]; ok {
		return ctor(raw)
	}
	return UnsupportedDatum{Type: tag.Type, Raw: raw}, nil
}

func unmarshalInto[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("lightq/entities: decode %T: %w", v, err)
	}
	return v, nil
}
