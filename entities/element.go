// Package entities models the gateway's message and event payloads: the
// small slice of the wire schema the dispatch engine needs to route and
// resolve arguments. Full (de)serialization against the gateway's JSON
// schema is an external concern; this package only carries the fields
// used for routing, filtering, and auto-reply.
package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Element is one entry in a MessageChain. Concrete types are tagged
// variants (Plain, At, Image, ...); String returns the element's textual
// form, used when stringifying a chain.
type Element interface {
	elementType() string
	String() string
}

// Source is always the first element of a chain when present; it carries
// the gateway's message id and timestamp and contributes nothing to the
// chain's stringification.
type Source struct {
	ID        int64 `json:"id"`
	Time      int64 `json:"time"`
}

func (Source) elementType() string { return "Source" }
func (Source) String() string      { return "" }

// Plain is a run of literal text.
type Plain struct {
	Text string `json:"text"`
}

func (Plain) elementType() string { return "Plain" }
func (p Plain) String() string    { return p.Text }

// At mentions a single group member.
type At struct {
	Target  int64  `json:"target"`
	Display string `json:"display"`
}

func (At) elementType() string { return "At" }
func (a At) String() string    { return fmt.Sprintf("@%s", a.Display) }

// AtAll mentions every member of a group.
type AtAll struct{}

func (AtAll) elementType() string { return "AtAll" }
func (AtAll) String() string      { return "@全体成员" }

// Face is a built-in platform emoji referenced by id.
type Face struct {
	FaceID int    `json:"faceId"`
	Name   string `json:"name"`
}

func (Face) elementType() string { return "Face" }
func (f Face) String() string    { return fmt.Sprintf("[表情:%s]", f.Name) }

// Image is an inline picture.
type Image struct {
	ImageID string `json:"imageId"`
	URL     string `json:"url"`
}

func (Image) elementType() string { return "Image" }
func (Image) String() string      { return "[图片]" }

// Poke is a platform "nudge" element embedded in a message chain.
type Poke struct {
	Name string `json:"name"`
}

func (Poke) elementType() string { return "Poke" }
func (p Poke) String() string    { return fmt.Sprintf("[戳一戳:%s]", p.Name) }

// Quote references an earlier message being replied to.
type Quote struct {
	ID       int64        `json:"id"`
	SenderID int64        `json:"senderId"`
	Origin   MessageChain `json:"origin"`
}

func (Quote) elementType() string { return "Quote" }
func (Quote) String() string      { return "" }

// Unsupported wraps an element type this module does not model; it is
// skipped by MessageChain.String, matching the Source/unsupported
// exclusion invariant.
type Unsupported struct {
	Type string
	Raw  json.RawMessage
}

func (u Unsupported) elementType() string { return u.Type }
func (Unsupported) String() string        { return "" }

// MessageChain is an ordered sequence of message elements. If a Source
// element is present it is always first. Stringifying a chain
// concatenates every element's String() except Source and Unsupported.
type MessageChain []Element

var elementConstructors = map[string]func(json.RawMessage) (Element, error){
	"Source": func(raw json.RawMessage) (Element, error) { return decodeElement[Source](raw) },
	"Plain":  func(raw json.RawMessage) (Element, error) { return decodeElement[Plain](raw) },
	"At":     func(raw json.RawMessage) (Element, error) { return decodeElement[At](raw) },
	"AtAll":  func(raw json.RawMessage) (Element, error) { return decodeElement[AtAll](raw) },
	"Face":   func(raw json.RawMessage) (Element, error) { return decodeElement[Face](raw) },
	"Image":  func(raw json.RawMessage) (Element, error) { return decodeElement[Image](raw) },
	"Poke":   func(raw json.RawMessage) (Element, error) { return decodeElement[Poke](raw) },
	"Quote":  func(raw json.RawMessage) (Element, error) { return decodeElement[Quote](raw) },
}

func decodeElement[T Element](raw json.RawMessage) (Element, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("lightq/entities: decode element %T: %w", v, err)
	}
	return v, nil
}

// UnmarshalJSON decodes a JSON array of tagged elements, dispatching each
// one by its "type" field. An element type this package does not model
// decodes to Unsupported rather than failing the whole chain.
func (c *MessageChain) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("lightq/entities: decode message chain: %w", err)
	}
	chain := make(MessageChain, 0, len(raw))
	for _, r := range raw {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(r, &tag); err != nil {
			return fmt.Errorf("lightq/entities: decode element tag: %w", err)
		}
		ctor, ok := elementConstructors[tag.Type]
		if !ok {
			chain = append(chain, Unsupported{Type: tag.Type, Raw: r})
			continue
		}
		element, err := ctor(r)
		if err != nil {
			return err
		}
		chain = append(chain, element)
	}
	*c = chain
	return nil
}

// MarshalJSON encodes each element as a tagged JSON object.
func (c MessageChain) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(c))
	for _, e := range c {
		blob, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("lightq/entities: encode element: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(blob, &m); err != nil {
			return nil, err
		}
		m["type"] = e.elementType()
		out = append(out, m)
	}
	return json.Marshal(out)
}

func (c MessageChain) String() string {
	var b strings.Builder
	for _, e := range c {
		switch e.(type) {
		case Source, Unsupported:
			continue
		default:
			b.WriteString(e.String())
		}
	}
	return b.String()
}

// Get returns the first element of type T, or the zero value and false
// if none is present.
func Get[T Element](c MessageChain) (T, bool) {
	for _, e := range c {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// GetAll returns every element of type T, preserving chain order.
func GetAll[T Element](c MessageChain) []T {
	var out []T
	for _, e := range c {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether the chain holds at least one element of type T.
func Contains[T Element](c MessageChain) bool {
	_, ok := Get[T](c)
	return ok
}

// AtTargets returns the target ids of every At element in the chain.
func AtTargets(c MessageChain) []int64 {
	var out []int64
	for _, a := range GetAll[At](c) {
		out = append(out, a.Target)
	}
	return out
}

// Texts returns the text of every Plain element in the chain.
func Texts(c MessageChain) []string {
	var out []string
	for _, p := range GetAll[Plain](c) {
		out = append(out, p.Text)
	}
	return out
}
