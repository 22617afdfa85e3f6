package intent

import "github.com/sarum90/ziffect/iface"

// Builder is the intents factory of an interface: it constructs bare Intent
// values for building equality-comparable expectations, independent of any
// execution context.
type Builder struct {
	ifc *iface.Interface
}

// BuilderFor returns the intents factory of an interface.
func BuilderFor(ifc *iface.Interface) *Builder {
	return &Builder{ifc: ifc}
}

// Interface returns the interface this builder constructs intents for.
func (b *Builder) Interface() *iface.Interface { return b.ifc }

// Build constructs the intent of one operation call. Operation names absent
// from the interface are rejected with iface.ErrUnknownOperation.
func (b *Builder) Build(operation string, args Args) (Intent, error) {
	op, err := b.ifc.Operation(operation)
	if err != nil {
		return Intent{}, err
	}
	return New(op, args)
}

// MustBuild is the panic-on-failure variant of Build, for expectations in
// tests where a malformed intent is itself a test defect.
func (b *Builder) MustBuild(operation string, args Args) Intent {
	in, err := b.Build(operation, args)
	if err != nil {
		panic(err)
	}
	return in
}
