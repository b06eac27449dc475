// Package eventbus dispatches events to handlers by their parameter types.
package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/serrors"
)

type EventBus interface {
	Publish(args ...any)
	PublishE(args ...any) error
	Subscribe(handler any)
	Unsubscribe(handler any)
	Clear()
	SubscribersCount() int
}

var (
	ErrNoSubscribers        = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers", "")
	ErrInvalidHandlerReturn = serrors.NewError("EVENTBUS_INVALID_HANDLER_RETURN", "invalid handler return signature", "")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type subscriber struct {
	handler reflect.Value
	ptr     uintptr
}

type bus struct {
	log         logrus.FieldLogger
	mu          sync.RWMutex
	subscribers []subscriber
}

// New returns an empty bus. A nil log disables logging.
func New(log logrus.FieldLogger) EventBus {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &bus{log: log}
}

// MatchSignature reports whether handler can be called with args.
func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			switch param.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func:
				continue
			default:
				return false
			}
		}
		if !reflect.TypeOf(arg).AssignableTo(param) {
			return false
		}
	}
	return true
}

func callArgs(handler reflect.Value, args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(handler.Type().In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

func (b *bus) matching(args []any) []subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []subscriber
	for _, s := range b.subscribers {
		if MatchSignature(s.handler.Interface(), args) {
			out = append(out, s)
		}
	}
	return out
}

// Publish calls every matching handler. Handler panics are logged and do not
// stop delivery to the remaining handlers.
func (b *bus) Publish(args ...any) {
	subs := b.matching(args)
	if len(subs) == 0 {
		b.log.Warnf("eventbus.Publish: no matching subscribers for %d arg(s)", len(args))
		return
	}
	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Errorf("eventbus: handler %s panicked: %v", s.handler.Type(), r)
				}
			}()
			s.handler.Call(callArgs(s.handler, args))
		}()
	}
}

// PublishE is Publish for handlers returning error. Errors and panics are
// joined into the result.
func (b *bus) PublishE(args ...any) error {
	subs := b.matching(args)
	if len(subs) == 0 {
		return ErrNoSubscribers
	}
	var errs []error
	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("eventbus: handler %s panicked: %v", s.handler.Type(), r))
				}
			}()
			out := s.handler.Call(callArgs(s.handler, args))
			switch {
			case len(out) == 0:
			case len(out) > 1:
				errs = append(errs, fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, s.handler.Type(), len(out)))
			case out[0].Type() != errorType:
				errs = append(errs, fmt.Errorf("%w: handler %s returns %s", ErrInvalidHandlerReturn, s.handler.Type(), out[0].Type()))
			case !out[0].IsNil():
				errs = append(errs, out[0].Interface().(error))
			}
		}()
	}
	return errors.Join(errs...)
}

// Subscribe registers handler, which must be a function.
func (b *bus) Subscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("eventbus: handler must be a function")
	}
	b.mu.Lock()
	b.subscribers = append(b.subscribers, subscriber{handler: v, ptr: v.Pointer()})
	b.mu.Unlock()
}

// Unsubscribe removes the first registration of handler.
func (b *bus) Unsubscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		return
	}
	ptr := v.Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subscribers {
		if s.ptr == ptr {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

func (b *bus) Clear() {
	b.mu.Lock()
	b.subscribers = nil
	b.mu.Unlock()
}

func (b *bus) SubscribersCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
