package iface

import (
	"reflect"

	"github.com/rickb777/date/v2"
)

// TypeTag identifies the semantic type of an operation argument.
// The zero TypeTag is invalid and rejected at declaration time.
type TypeTag struct {
	rt reflect.Type
}

// Of returns the TypeTag for an arbitrary Go type.
func Of[T any]() TypeTag {
	return TypeTag{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// Predeclared tags for the argument types interfaces commonly declare.
var (
	String = Of[string]()
	Int    = Of[int]()
	Float  = Of[float64]()
	Bool   = Of[bool]()
	Bytes  = Of[[]byte]()
	Date   = Of[date.Date]()
)

// IsZero reports whether the tag carries no type.
func (t TypeTag) IsZero() bool { return t.rt == nil }

// Accepts reports whether v may be used as a value of this type.
// A nil v is accepted only by nilable types.
func (t TypeTag) Accepts(v any) bool {
	if t.rt == nil {
		return false
	}
	rv := reflect.TypeOf(v)
	if rv == nil {
		switch t.rt.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan,
			reflect.Func, reflect.Interface:
			return true
		default:
			return false
		}
	}
	return rv.AssignableTo(t.rt)
}

func (t TypeTag) String() string {
	if t.rt == nil {
		return "<invalid>"
	}
	return t.rt.String()
}
