package dispatch

import "reflect"

// Router maps a datum's type ancestry to the subset of handlers that
// accept it (§4.3). D is the datum shape the router's handlers were
// built against (entities.Message, entities.Event, or error for the
// exception router); C is the context type handlers in this router
// receive.
type Router[C any, D any] struct {
	extract   func(C) (D, bool)
	typeChain func(D) []reflect.Type

	byType map[reflect.Type][]*HandlerRecord[C]
}

// NewRouter creates an empty router. extract pulls the routed datum out
// of a context (returning ok=false if this context doesn't carry one —
// e.g. an event context consulted by the message router); typeChain
// returns the datum's ancestry, most-specific type first.
func NewRouter[C any, D any](extract func(C) (D, bool), typeChain func(D) []reflect.Type) *Router[C, D] {
	return &Router[C, D]{extract: extract, typeChain: typeChain, byType: map[reflect.Type][]*HandlerRecord[C]{}}
}

// Build rebuilds the type→handlers map from an already-ordered handler
// sequence (§4.3). A handler naming more than one type is indexed under
// each.
func (r *Router[C, D]) Build(ordered []*HandlerRecord[C]) {
	r.byType = map[reflect.Type][]*HandlerRecord[C]{}
	for _, h := range ordered {
		for _, t := range h.Types {
			r.byType[t] = append(r.byType[t], h)
		}
	}
}

// Clear empties the router.
func (r *Router[C, D]) Clear() {
	r.byType = map[reflect.Type][]*HandlerRecord[C]{}
}

// Route walks ctx's datum type ancestry from most-specific to
// most-general and returns the first handler, among those registered for
// a matching type, whose filters all pass. It returns (nil, nil) if no
// type along the chain yields a match.
func (r *Router[C, D]) Route(ctx C) (*HandlerRecord[C], error) {
	datum, ok := r.extract(ctx)
	if !ok {
		return nil, nil
	}
	for _, t := range r.typeChain(datum) {
		candidates, ok := r.byType[t]
		if !ok {
			continue
		}
		for _, h := range candidates {
			can, err := h.CanHandle(ctx)
			if err != nil {
				return nil, err
			}
			if can {
				return h, nil
			}
		}
	}
	return nil, nil
}
