// Package controller discovers handler records attached to a stateful
// "controller" struct and validates their cross-references (§4.6).
//
// The originating design's controller problem — a handler declared as a
// method needs per-instance binding at access time, modelled there with
// a descriptor protocol (`__get__`) — mostly does not arise in Go: a
// method value (c.OnWeather) is already a bound closure the moment it is
// taken, so a controller's constructor can build most handler records
// directly, each independently closed over that instance. The one piece
// of §4.6 Go still needs to realize explicitly is `handler_property`: a
// field that lazily builds its handler on first access and caches it
// per instance. HandlerFactory/ExceptionHandlerFactory fields give Scan
// that same lazy-build-then-cache behaviour via a per-field memo.
package controller

import "errors"

// ErrNotStruct is returned by Scan when given something other than a
// struct or pointer to struct.
var ErrNotStruct = errors.New("lightq/controller: Scan: not a struct or pointer to struct")

// ErrForeignHandler is returned when a handler's Before/After neighbour
// list references a handler that was not itself found on the same
// controller instance — the Go analogue of the source's "descriptor of a
// foreign class" contract error.
var ErrForeignHandler = errors.New("lightq/controller: handler references a neighbour foreign to this controller")

// ErrBadHandlerFactory is returned when a HandlerFactory/
// ExceptionHandlerFactory field produces something Scan cannot use: a
// nil handler with no error, or a message/event factory whose built
// handler declares no (or mixed) message/event Types — the Go analogue
// of a handler_property returning the wrong kind of handler.
var ErrBadHandlerFactory = errors.New("lightq/controller: handler factory returned an unusable handler")
