package dispatch_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lightq-go/lightq/dispatch"
	"github.com/lightq-go/lightq/entities"
)

func messageRouter() *dispatch.Router[*dispatch.ReceiveContext, entities.Message] {
	return dispatch.NewRouter[*dispatch.ReceiveContext, entities.Message](
		func(ctx *dispatch.ReceiveContext) (entities.Message, bool) {
			m, ok := ctx.Datum.(entities.Message)
			return m, ok
		},
		func(m entities.Message) []reflect.Type { return m.TypeChain() },
	)
}

// TestRouter_TypeHierarchyRouting covers §8 property 7: a handler
// registered for the concrete type wins over one registered for the
// base Message interface, for a datum of that concrete type; the base
// handler still matches a different concrete type.
func TestRouter_TypeHierarchyRouting(t *testing.T) {
	baseCalled, groupCalled := false, false
	base := &dispatch.MessageHandler{
		Name:  "base",
		Types: []reflect.Type{reflect.TypeOf((*entities.Message)(nil)).Elem()},
		Callback: func(map[string]any) (any, error) {
			baseCalled = true
			return nil, nil
		},
	}
	group := &dispatch.MessageHandler{
		Name:  "group",
		Types: []reflect.Type{reflect.TypeOf(entities.GroupMessage{})},
		Callback: func(map[string]any) (any, error) {
			groupCalled = true
			return nil, nil
		},
	}

	r := messageRouter()
	r.Build([]*dispatch.MessageHandler{group, base})

	groupCtx := dispatch.NewReceiveContext(nil, entities.GroupMessage{})
	h, err := r.Route(groupCtx)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if h != group {
		t.Fatalf("Route(GroupMessage) selected %v, want group handler", h)
	}
	if _, err := h.Handle(groupCtx); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !groupCalled || baseCalled {
		t.Errorf("groupCalled=%v baseCalled=%v, want true/false", groupCalled, baseCalled)
	}

	friendCtx := dispatch.NewReceiveContext(nil, entities.FriendMessage{})
	h2, err := r.Route(friendCtx)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if h2 != base {
		t.Fatalf("Route(FriendMessage) selected %v, want base handler", h2)
	}
}

// TestHandlerRecord_FilterShortCircuit covers §8 property 8.
func TestHandlerRecord_FilterShortCircuit(t *testing.T) {
	var calls []int
	filter := func(n int, pass bool) dispatch.Filter[*dispatch.ReceiveContext] {
		return func(*dispatch.ReceiveContext) (bool, error) {
			calls = append(calls, n)
			return pass, nil
		}
	}
	h := &dispatch.MessageHandler{
		Filters: []dispatch.Filter[*dispatch.ReceiveContext]{
			filter(1, true),
			filter(2, false),
			filter(3, true),
		},
	}
	can, err := h.CanHandle(dispatch.NewReceiveContext(nil, entities.GroupMessage{}))
	if err != nil {
		t.Fatalf("CanHandle: %v", err)
	}
	if can {
		t.Error("CanHandle = true, want false")
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("filters called = %v, want [1 2] (filter 3 must not run)", calls)
	}
}

// TestHandlerRecord_FilterErrorPropagates ensures a filter's own error
// surfaces rather than being treated as a plain "no match".
func TestHandlerRecord_FilterErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	h := &dispatch.MessageHandler{
		Filters: []dispatch.Filter[*dispatch.ReceiveContext]{
			func(*dispatch.ReceiveContext) (bool, error) { return false, boom },
		},
	}
	_, err := h.CanHandle(dispatch.NewReceiveContext(nil, entities.GroupMessage{}))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping %v", err, boom)
	}
}
