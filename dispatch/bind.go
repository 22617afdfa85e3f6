package dispatch

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sarum90/ziffect/iface"
	"github.com/sarum90/ziffect/intent"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Bind produces a dispatcher fragment routing every operation of ifc to the
// same-named method of impl. Binding records the pairs only: impl is not
// inspected until an intent is actually dispatched, so real backends, fakes,
// and test doubles all bind identically. A missing method surfaces as
// ErrPerformerMissing at execution time.
func Bind(ifc *iface.Interface, impl any) Dispatcher {
	rv := reflect.ValueOf(impl)
	d := make(TypeDispatcher, len(ifc.Operations()))
	for _, op := range ifc.Operations() {
		d[intent.KeyOf(op)] = methodPerformer(rv, op)
	}
	return d
}

func methodPerformer(rv reflect.Value, op *iface.Operation) Performer {
	name := MethodName(op.Name())
	return func(ctx context.Context, in intent.Intent) (any, error) {
		m := rv.MethodByName(name)
		if !m.IsValid() {
			return nil, fmt.Errorf("%w: %s has no method %s for operation %s",
				ErrPerformerMissing, rv.Type(), name, op.Name())
		}
		return call(ctx, m, op, in)
	}
}

// call invokes a bound method with the intent's fields in declared argument
// order, never the raw intent. A leading context.Context parameter receives
// the engine's context.
func call(ctx context.Context, m reflect.Value, op *iface.Operation, in intent.Intent) (any, error) {
	mt := m.Type()
	args := op.Arguments()
	argv := make([]reflect.Value, 0, len(args)+1)

	wantIn := len(args)
	if mt.NumIn() == len(args)+1 && mt.In(0) == ctxType {
		argv = append(argv, reflect.ValueOf(ctx))
		wantIn++
	}
	if mt.NumIn() != wantIn {
		return nil, fmt.Errorf("%w: method %s takes %d parameters, operation %s declares %d arguments",
			ErrPerformerMissing, mt, mt.NumIn(), op.Name(), len(args))
	}
	for i, arg := range args {
		v, _ := in.Field(arg.Name())
		pt := mt.In(len(argv))
		rv := reflect.ValueOf(v)
		if v == nil {
			rv = reflect.Zero(pt)
		} else if !rv.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: parameter %d of method %s wants %s, argument %q carries %T",
				ErrPerformerMissing, i, mt, pt, arg.Name(), v)
		}
		argv = append(argv, rv)
	}

	// A variadic method receives the declared slice argument as its
	// variadic tail. Call would re-check argv against the element type and
	// panic, so the slice goes through CallSlice instead.
	var out []reflect.Value
	if mt.IsVariadic() {
		out = m.CallSlice(argv)
	} else {
		out = m.Call(argv)
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if mt.Out(0) == errType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	case 2:
		if mt.Out(1) != errType {
			return nil, fmt.Errorf("%w: method %s must return (T, error), returns (%s, %s)",
				ErrPerformerMissing, mt, mt.Out(0), mt.Out(1))
		}
		return out[0].Interface(), asError(out[1])
	default:
		return nil, fmt.Errorf("%w: method %s returns %d values", ErrPerformerMissing, mt, len(out))
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// MethodName maps an operation name to the exported Go method implementing
// it: snake_case segments are title-cased and joined, so "insert_if_absent"
// binds to InsertIfAbsent.
func MethodName(operation string) string {
	segments := strings.Split(operation, "_")
	for i, s := range segments {
		segments[i] = titleCaser.String(s)
	}
	return strings.Join(segments, "")
}
