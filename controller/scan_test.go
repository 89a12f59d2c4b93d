package controller_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lightq-go/lightq/controller"
	"github.com/lightq-go/lightq/dispatch"
	"github.com/lightq-go/lightq/entities"
)

func messageTypes() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(entities.GroupMessage{})}
}

type sampleController struct {
	calls int
	Ping  *dispatch.MessageHandler
}

func newSampleController() *sampleController {
	c := &sampleController{}
	c.Ping = &dispatch.MessageHandler{
		Name:  "ping",
		Types: messageTypes(),
	}
	c.Ping.Callback = func(map[string]any) (any, error) {
		c.calls++
		return nil, nil
	}
	return c
}

// TestScan_InstanceIsolation covers §8 property 10: two instances of the
// same controller struct yield distinct bound handlers whose callbacks
// close over their own instance's state.
func TestScan_InstanceIsolation(t *testing.T) {
	a := newSampleController()
	b := newSampleController()

	msgsA, _, _, err := controller.Scan(a)
	if err != nil {
		t.Fatalf("Scan(a): %v", err)
	}
	msgsB, _, _, err := controller.Scan(b)
	if err != nil {
		t.Fatalf("Scan(b): %v", err)
	}
	if len(msgsA) != 1 || len(msgsB) != 1 {
		t.Fatalf("got %d/%d message handlers, want 1/1", len(msgsA), len(msgsB))
	}
	if msgsA[0] == msgsB[0] {
		t.Fatal("handlers from distinct instances must not be the same record")
	}

	if _, err := msgsA[0].Handle(dispatch.NewReceiveContext(nil, entities.GroupMessage{})); err != nil {
		t.Fatalf("Handle(a): %v", err)
	}
	if a.calls != 1 || b.calls != 0 {
		t.Errorf("a.calls=%d b.calls=%d, want 1/0 (per-instance state)", a.calls, b.calls)
	}

	// Same-instance accesses must compare identical.
	msgsA2, _, _, err := controller.Scan(a)
	if err != nil {
		t.Fatalf("Scan(a) second time: %v", err)
	}
	if msgsA2[0] != msgsA[0] {
		t.Error("re-scanning the same instance must yield the same handler record")
	}
}

func TestScan_RejectsNonStruct(t *testing.T) {
	if _, _, _, err := controller.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestScan_RejectsForeignNeighbour(t *testing.T) {
	other := &dispatch.MessageHandler{Name: "foreign", Types: messageTypes()}

	type withForeignBefore struct {
		H *dispatch.MessageHandler
	}
	c := &withForeignBefore{H: &dispatch.MessageHandler{
		Name:   "h",
		Types:  messageTypes(),
		Before: []*dispatch.MessageHandler{other},
	}}

	if _, _, _, err := controller.Scan(c); err == nil {
		t.Error("Scan should reject a Before-neighbour not found on this controller")
	}
}

func TestScan_NilHandlerFieldSkipped(t *testing.T) {
	type withNil struct {
		H *dispatch.MessageHandler
	}
	msgs, events, exceptions, err := controller.Scan(&withNil{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(msgs)+len(events)+len(exceptions) != 0 {
		t.Error("a nil handler field must be skipped, not dereferenced")
	}
}

type lazyController struct {
	builds int
	Ping   controller.HandlerFactory
}

func newLazyController() *lazyController {
	c := &lazyController{}
	c.Ping = func() (*dispatch.MessageHandler, error) {
		c.builds++
		return &dispatch.MessageHandler{Name: "lazy_ping", Types: messageTypes()}, nil
	}
	return c
}

// TestScan_HandlerFactoryBuildsLazilyAndCaches covers the handler_property
// realization: a HandlerFactory field is left unbuilt until Scan first
// touches it, and subsequent scans of the same instance reuse the built
// handler instead of invoking the factory again.
func TestScan_HandlerFactoryBuildsLazilyAndCaches(t *testing.T) {
	c := newLazyController()
	if c.builds != 0 {
		t.Fatalf("factory ran before Scan touched it: builds=%d", c.builds)
	}

	msgs, _, _, err := controller.Scan(c)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Name != "lazy_ping" {
		t.Fatalf("got %d message handlers, want 1 named lazy_ping", len(msgs))
	}
	if c.builds != 1 {
		t.Fatalf("builds=%d after first Scan, want 1", c.builds)
	}

	msgs2, _, _, err := controller.Scan(c)
	if err != nil {
		t.Fatalf("Scan (second): %v", err)
	}
	if c.builds != 1 {
		t.Errorf("builds=%d after second Scan, want 1 (cached)", c.builds)
	}
	if msgs2[0] != msgs[0] {
		t.Error("rescanning the same instance must yield the same built handler")
	}
}

// TestScan_HandlerFactoryInstanceIsolation covers that two instances'
// HandlerFactory fields cache independently: the field's own address is
// the memoization key, and distinct instances have distinct addresses.
func TestScan_HandlerFactoryInstanceIsolation(t *testing.T) {
	a := newLazyController()
	b := newLazyController()

	if _, _, _, err := controller.Scan(a); err != nil {
		t.Fatalf("Scan(a): %v", err)
	}
	if _, _, _, err := controller.Scan(b); err != nil {
		t.Fatalf("Scan(b): %v", err)
	}
	if a.builds != 1 || b.builds != 1 {
		t.Errorf("a.builds=%d b.builds=%d, want 1/1 (independent caches)", a.builds, b.builds)
	}
}

func TestScan_BadHandlerFactoryNilHandler(t *testing.T) {
	type withBadFactory struct {
		H controller.HandlerFactory
	}
	c := &withBadFactory{H: func() (*dispatch.MessageHandler, error) { return nil, nil }}
	if _, _, _, err := controller.Scan(c); !errors.Is(err, controller.ErrBadHandlerFactory) {
		t.Errorf("Scan err = %v, want ErrBadHandlerFactory", err)
	}
}

func TestScan_BadHandlerFactoryMissingTypes(t *testing.T) {
	type withBadFactory struct {
		H controller.HandlerFactory
	}
	c := &withBadFactory{H: func() (*dispatch.MessageHandler, error) {
		return &dispatch.MessageHandler{Name: "untyped"}, nil
	}}
	if _, _, _, err := controller.Scan(c); !errors.Is(err, controller.ErrBadHandlerFactory) {
		t.Errorf("Scan err = %v, want ErrBadHandlerFactory", err)
	}
}
