// Package intent turns operation calls into immutable, structurally
// comparable values.
//
// An Intent is the inert description of one operation invocation: one
// validated field per declared argument. Intents carry no behavior; a
// dispatcher routes them to performers by Key, and tests compare them for
// equality against expectations built with the same Builder machinery.
package intent

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/sarum90/ziffect/iface"
)

var (
	// ErrMissingArgument reports an argument with neither an explicit value
	// nor a declared default.
	ErrMissingArgument = fmt.Errorf("missing argument")

	// ErrTypeMismatch reports an explicit value the declared type rejects.
	// Checked at construction, never deferred to dispatch.
	ErrTypeMismatch = fmt.Errorf("argument type mismatch")

	// ErrUnknownArgument reports a named value the operation never declared.
	ErrUnknownArgument = fmt.Errorf("unknown argument")
)

// Args carries the named argument values of one operation call.
type Args map[string]any

// Key is the concrete type identity of an intent: dispatch routes on it.
// Keys of two interfaces never collide, even for identical declarations.
type Key struct {
	Interface uuid.UUID
	Operation string
}

// KeyOf returns the intent type identity of an operation.
func KeyOf(op *iface.Operation) Key {
	return Key{Interface: op.Interface().ID(), Operation: op.Name()}
}

// Intent is one validated operation invocation. Immutable after
// construction: derived invocations must construct a new Intent.
type Intent struct {
	op     *iface.Operation
	fields map[string]any
}

// New validates args against the operation and produces an Intent. Missing
// arguments take their declared default; every defect is reported, never
// coerced.
func New(op *iface.Operation, args Args) (Intent, error) {
	if op == nil || op.Interface() == nil {
		return Intent{}, fmt.Errorf(
			"operation is not attached to an interface; obtain it from (*iface.Interface).Operation")
	}
	fields := make(map[string]any, len(args))
	var errs error
	for _, arg := range op.Arguments() {
		v, explicit := args[arg.Name()]
		if !explicit {
			def, has := arg.Default()
			if !has {
				errs = multierr.Append(errs, fmt.Errorf(
					"%w: %s.%s requires %q", ErrMissingArgument, op.Interface().Name(), op.Name(), arg.Name()))
				continue
			}
			fields[arg.Name()] = def
			continue
		}
		if !arg.Type().Accepts(v) {
			errs = multierr.Append(errs, fmt.Errorf(
				"%w: %q of %s.%s wants %s, got %T",
				ErrTypeMismatch, arg.Name(), op.Interface().Name(), op.Name(), arg.Type(), v))
			continue
		}
		fields[arg.Name()] = v
	}
	extras := make([]string, 0)
	for name := range args {
		if _, ok := op.Argument(name); !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: %q is not declared on %s.%s", ErrUnknownArgument, name, op.Interface().Name(), op.Name()))
	}
	if errs != nil {
		return Intent{}, errs
	}
	return Intent{op: op, fields: fields}, nil
}

// Operation returns the descriptor this intent was built from.
func (in Intent) Operation() *iface.Operation { return in.op }

// Key returns the intent's type identity.
func (in Intent) Key() Key { return KeyOf(in.op) }

// Field returns one named field value.
func (in Intent) Field(name string) (any, bool) {
	v, ok := in.fields[name]
	return v, ok
}

// Fields returns a copy of the field values; mutating it does not touch the
// intent.
func (in Intent) Fields() map[string]any {
	out := make(map[string]any, len(in.fields))
	for k, v := range in.fields {
		out[k] = v
	}
	return out
}

// Equal reports whether both intents originate from the same operation of
// the same interface and all field values compare equal.
func (in Intent) Equal(other Intent) bool {
	if in.op == nil || other.op == nil {
		return in.op == other.op
	}
	if in.Key() != other.Key() {
		return false
	}
	return reflect.DeepEqual(in.fields, other.fields)
}

// Hash returns a digest of (operation identity, field values).
// Equal intents always hash alike.
func (in Intent) Hash() uint64 {
	h := xxhash.New()
	if in.op != nil {
		id := in.op.Interface().ID()
		h.Write(id[:])
		h.WriteString(in.op.Name())
	}
	for _, name := range in.sortedFieldNames() {
		h.WriteString(name)
		h.WriteString("=")
		h.WriteString(formatValue(in.fields[name]))
		h.WriteString(";")
	}
	return h.Sum64()
}

// String renders the intent deterministically, fields sorted by name, so a
// failed comparison diffs cleanly.
func (in Intent) String() string {
	if in.op == nil {
		return "<zero intent>"
	}
	parts := make([]string, 0, len(in.fields))
	for _, name := range in.sortedFieldNames() {
		parts = append(parts, name+"="+formatValue(in.fields[name]))
	}
	return fmt.Sprintf("%s.%s(%s)", in.op.Interface().Name(), in.op.Name(), strings.Join(parts, ", "))
}

func (in Intent) sortedFieldNames() []string {
	names := make([]string, 0, len(in.fields))
	for name := range in.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatValue(v any) string {
	switch vv := v.(type) {
	case string:
		return fmt.Sprintf("%q", vv)
	default:
		return fmt.Sprintf("%v", vv)
	}
}
