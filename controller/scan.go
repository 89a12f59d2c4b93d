package controller

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/lightq-go/lightq/dispatch"
)

// HandlerFactory is the handler_property equivalent for message/event
// handlers (§4.6's "Open handler_property"): a field of this type builds
// its handler lazily, on first access, instead of the constructor
// building it eagerly. Scan classifies the built handler by its declared
// Types exactly as it does for a plain *MessageHandler/*EventHandler
// field.
type HandlerFactory func() (*dispatch.MessageHandler, error)

// ExceptionHandlerFactory is HandlerFactory's counterpart for exception
// handlers.
type ExceptionHandlerFactory func() (*dispatch.ExceptionHandler, error)

// factoryMemo caches a factory field's built handler across repeated
// Scan calls against the same instance, keyed by the field's own address
// — the Go replacement for the source's instance.__dict__ cache a
// descriptor's __get__ would populate on first access. Two distinct
// instances hold the factory in two distinct struct fields, so they
// never collide; rescanning the same instance's field returns the
// already-cached handler.
var factoryMemo sync.Map // uintptr -> factoryResult

type factoryResult struct {
	handler any
	err     error
}

// memoizedHandlerFactory invokes build at most once per addr, caching the
// result for subsequent calls. addrOK is false when the field could not
// be addressed (ctrl was scanned by value, not by pointer); in that case
// there is no stable per-field identity to key a cache on, so build runs
// fresh every time rather than risk colliding with an unrelated field.
func memoizedHandlerFactory(addr uintptr, addrOK bool, build HandlerFactory) (*dispatch.MessageHandler, error) {
	if !addrOK {
		return build()
	}
	if v, ok := factoryMemo.Load(addr); ok {
		r := v.(factoryResult)
		if r.err != nil {
			return nil, r.err
		}
		return r.handler.(*dispatch.MessageHandler), nil
	}
	h, err := build()
	factoryMemo.Store(addr, factoryResult{handler: h, err: err})
	return h, err
}

func memoizedExceptionHandlerFactory(addr uintptr, addrOK bool, build ExceptionHandlerFactory) (*dispatch.ExceptionHandler, error) {
	if !addrOK {
		return build()
	}
	if v, ok := factoryMemo.Load(addr); ok {
		r := v.(factoryResult)
		if r.err != nil {
			return nil, r.err
		}
		return r.handler.(*dispatch.ExceptionHandler), nil
	}
	h, err := build()
	factoryMemo.Store(addr, factoryResult{handler: h, err: err})
	return h, err
}

// Scan enumerates ctrl's exported fields for handler records — filtering
// out unexported ("private") fields exactly as §4.6's discovery rule
// does — and sorts each into the message, event, or exception bucket by
// its declared Types. A field may hold a built handler directly, or a
// HandlerFactory/ExceptionHandlerFactory (handler_property): when ctrl is
// passed by pointer the latter is invoked at most once per field, its
// result cached for the rest of that instance's lifetime; when ctrl is
// passed by value it is invoked afresh on every Scan. Scan then validates that every handler's
// Before/After neighbours were themselves found on ctrl; a neighbour
// belonging to a different controller instance is the Go analogue of a
// "foreign class" reference and is rejected with ErrForeignHandler.
func Scan(ctrl any) (messages []*dispatch.MessageHandler, events []*dispatch.EventHandler, exceptions []*dispatch.ExceptionHandler, err error) {
	v := reflect.ValueOf(ctrl)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, nil, fmt.Errorf("%w: got %T", ErrNotStruct, ctrl)
	}

	receiveSet := map[*dispatch.HandlerRecord[*dispatch.ReceiveContext]]bool{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported: not discoverable, by design
		}
		fv := v.Field(i)
		if !fv.CanInterface() {
			continue
		}
		switch fv.Kind() {
		case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
			if fv.IsNil() {
				continue
			}
		}

		switch h := fv.Interface().(type) {
		case *dispatch.HandlerRecord[*dispatch.ReceiveContext]:
			if err := classifyReceive(h, t.Name(), field.Name, &messages, &events, receiveSet); err != nil {
				return nil, nil, nil, err
			}
		case *dispatch.HandlerRecord[*dispatch.ExceptionContext]:
			exceptions = append(exceptions, h)
		case HandlerFactory:
			addr, addrOK := factoryAddr(fv)
			built, ferr := memoizedHandlerFactory(addr, addrOK, h)
			if ferr != nil {
				return nil, nil, nil, fmt.Errorf("%w: %s.%s: %v", ErrBadHandlerFactory, t.Name(), field.Name, ferr)
			}
			if built == nil {
				return nil, nil, nil, fmt.Errorf("%w: %s.%s returned a nil handler", ErrBadHandlerFactory, t.Name(), field.Name)
			}
			if err := classifyReceive(built, t.Name(), field.Name, &messages, &events, receiveSet); err != nil {
				return nil, nil, nil, fmt.Errorf("%w: %v", ErrBadHandlerFactory, err)
			}
		case ExceptionHandlerFactory:
			addr, addrOK := factoryAddr(fv)
			built, ferr := memoizedExceptionHandlerFactory(addr, addrOK, h)
			if ferr != nil {
				return nil, nil, nil, fmt.Errorf("%w: %s.%s: %v", ErrBadHandlerFactory, t.Name(), field.Name, ferr)
			}
			if built == nil {
				return nil, nil, nil, fmt.Errorf("%w: %s.%s returned a nil handler", ErrBadHandlerFactory, t.Name(), field.Name)
			}
			exceptions = append(exceptions, built)
		}
	}

	for _, h := range messages {
		if err := checkNeighbours(h, receiveSet); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, h := range events {
		if err := checkNeighbours(h, receiveSet); err != nil {
			return nil, nil, nil, err
		}
	}
	return messages, events, exceptions, nil
}

// classifyReceive sorts h into messages or events by its declared Types,
// shared by both the direct-field and factory-field discovery paths.
func classifyReceive(h *dispatch.HandlerRecord[*dispatch.ReceiveContext], typeName, fieldName string, messages *[]*dispatch.MessageHandler, events *[]*dispatch.EventHandler, receiveSet map[*dispatch.HandlerRecord[*dispatch.ReceiveContext]]bool) error {
	isMessage, isEvent := dispatch.ClassifyReceive(h)
	switch {
	case isMessage && !isEvent:
		*messages = append(*messages, h)
		receiveSet[h] = true
	case isEvent && !isMessage:
		*events = append(*events, h)
		receiveSet[h] = true
	default:
		return fmt.Errorf("lightq/controller: field %s.%s declares no (or mixed) message/event types", typeName, fieldName)
	}
	return nil
}

// factoryAddr returns the memoization key for a factory-typed field: its
// own address, and whether that address is usable — false when ctrl was
// scanned by value and the field cannot be addressed.
func factoryAddr(fv reflect.Value) (uintptr, bool) {
	if !fv.CanAddr() {
		return 0, false
	}
	return fv.Addr().Pointer(), true
}

func checkNeighbours(h *dispatch.HandlerRecord[*dispatch.ReceiveContext], known map[*dispatch.HandlerRecord[*dispatch.ReceiveContext]]bool) error {
	for _, n := range h.Before {
		if !known[n] {
			return fmt.Errorf("%w: %s before-neighbour not found on this controller", ErrForeignHandler, h.Name)
		}
	}
	for _, n := range h.After {
		if !known[n] {
			return fmt.Errorf("%w: %s after-neighbour not found on this controller", ErrForeignHandler, h.Name)
		}
	}
	return nil
}
