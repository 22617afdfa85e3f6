// Package iface declares effect interfaces: named sets of operations with
// typed, optionally defaulted arguments.
//
// An Interface is the schema everything else derives from. Intent value
// shapes, the effects proxy, and implementation binding all consult the
// descriptors built here, and the Interface is immutable once built.
package iface

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

var (
	// ErrMalformedArgument reports an argument descriptor that cannot be
	// satisfied: empty name, missing type, or a default its type rejects.
	ErrMalformedArgument = fmt.Errorf("malformed argument descriptor")

	// ErrDuplicateOperation reports two operations declared under one name.
	ErrDuplicateOperation = fmt.Errorf("duplicate operation name")

	// ErrUnknownOperation reports a lookup of an operation name the
	// interface never declared.
	ErrUnknownOperation = fmt.Errorf("unknown operation")
)

// Argument describes one named parameter of an operation.
type Argument struct {
	name       string
	typ        TypeTag
	def        any
	hasDefault bool
}

// Arg declares a required argument.
func Arg(name string, typ TypeTag) Argument {
	return Argument{name: name, typ: typ}
}

// ArgDefault declares an argument with a default value substituted when the
// caller omits it.
func ArgDefault(name string, typ TypeTag, def any) Argument {
	return Argument{name: name, typ: typ, def: def, hasDefault: true}
}

func (a Argument) Name() string  { return a.name }
func (a Argument) Type() TypeTag { return a.typ }

// Default returns the declared default value, if any.
func (a Argument) Default() (any, bool) { return a.def, a.hasDefault }

func (a Argument) validate(op string) error {
	var errs error
	if a.name == "" {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: operation %q declares an unnamed argument", ErrMalformedArgument, op))
	}
	if a.typ.IsZero() {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: argument %q of operation %q has no type", ErrMalformedArgument, a.name, op))
	} else if a.hasDefault && !a.typ.Accepts(a.def) {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: default %v of argument %q (operation %q) is not a %s",
			ErrMalformedArgument, a.def, a.name, op, a.typ))
	}
	return errs
}

// Operation describes one named operation: an ordered list of arguments.
// Argument order is significant for binding and shape round-tripping;
// intent equality matches arguments by name only.
type Operation struct {
	owner *Interface
	name  string
	args  []Argument
	index map[string]int
}

// Op declares an operation for use with New.
func Op(name string, args ...Argument) Operation {
	return Operation{name: name, args: args}
}

func (o *Operation) Name() string { return o.name }

// Interface returns the interface this operation belongs to.
func (o *Operation) Interface() *Interface { return o.owner }

// Arguments returns the declared arguments in declaration order.
func (o *Operation) Arguments() []Argument {
	out := make([]Argument, len(o.args))
	copy(out, o.args)
	return out
}

// Argument returns the named argument descriptor.
func (o *Operation) Argument(name string) (Argument, bool) {
	i, ok := o.index[name]
	if !ok {
		return Argument{}, false
	}
	return o.args[i], true
}

// Interface is a named, ordered collection of operations. Each built
// Interface carries a unique identity: intents of two interfaces are never
// interchangeable, even when the declarations are textually identical.
type Interface struct {
	name  string
	id    uuid.UUID
	ops   map[string]*Operation
	order []string
}

// New builds an Interface from declared operations. All declaration errors
// are aggregated so a caller sees every defect at once.
func New(name string, ops ...Operation) (*Interface, error) {
	ifc := &Interface{
		name: name,
		id:   uuid.New(),
		ops:  make(map[string]*Operation, len(ops)),
	}
	var errs error
	if name == "" {
		errs = multierr.Append(errs, fmt.Errorf("interface name must not be empty"))
	}
	for _, decl := range ops {
		if decl.name == "" {
			errs = multierr.Append(errs, fmt.Errorf("interface %q declares an unnamed operation", name))
			continue
		}
		if _, dup := ifc.ops[decl.name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s.%s", ErrDuplicateOperation, name, decl.name))
			continue
		}
		op := &Operation{
			owner: ifc,
			name:  decl.name,
			args:  decl.args,
			index: make(map[string]int, len(decl.args)),
		}
		for i, a := range decl.args {
			if err := a.validate(decl.name); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if _, dup := op.index[a.name]; dup {
				errs = multierr.Append(errs, fmt.Errorf(
					"%w: argument %q declared twice on operation %q", ErrMalformedArgument, a.name, decl.name))
				continue
			}
			op.index[a.name] = i
		}
		ifc.ops[decl.name] = op
		ifc.order = append(ifc.order, decl.name)
	}
	if errs != nil {
		return nil, errs
	}
	return ifc, nil
}

// MustNew is the panic-on-failure variant of New, for interfaces declared at
// package init where a defect should be fatal.
func MustNew(name string, ops ...Operation) *Interface {
	ifc, err := New(name, ops...)
	if err != nil {
		panic(err)
	}
	return ifc
}

func (i *Interface) Name() string { return i.name }

// ID returns the unique identity of this interface.
func (i *Interface) ID() uuid.UUID { return i.id }

// Operation returns the named operation descriptor.
func (i *Interface) Operation(name string) (*Operation, error) {
	op, ok := i.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownOperation, i.name, name)
	}
	return op, nil
}

// Operations returns all operations in declaration order.
func (i *Interface) Operations() []*Operation {
	out := make([]*Operation, 0, len(i.order))
	for _, name := range i.order {
		out = append(out, i.ops[name])
	}
	return out
}
