// Package effect wraps intents as suspended-effect descriptors.
//
// An Effect is inert: building one performs nothing. It only describes the
// side effect a computation wants, and the perform engine dispatches it when
// the computation is run.
package effect

import (
	"github.com/sarum90/ziffect/iface"
	"github.com/sarum90/ziffect/intent"
)

// Effect is the inert descriptor of one desired side effect.
type Effect struct {
	Intent intent.Intent
}

// Of wraps an already-constructed intent.
func Of(in intent.Intent) Effect { return Effect{Intent: in} }

// Proxy is the effects proxy of an interface: each operation call builds the
// operation's intent and wraps it as an Effect. The call itself has no side
// effect; dispatch happens only when the Effect reaches the engine.
type Proxy struct {
	intents *intent.Builder
}

// ProxyFor returns the effects proxy of an interface.
func ProxyFor(ifc *iface.Interface) *Proxy {
	return &Proxy{intents: intent.BuilderFor(ifc)}
}

// Interface returns the interface this proxy builds effects for.
func (p *Proxy) Interface() *iface.Interface { return p.intents.Interface() }

// Build constructs the effect of one operation call. Validation is identical
// to the intents factory; unknown operations are rejected with
// iface.ErrUnknownOperation.
func (p *Proxy) Build(operation string, args intent.Args) (Effect, error) {
	in, err := p.intents.Build(operation, args)
	if err != nil {
		return Effect{}, err
	}
	return Of(in), nil
}

// MustBuild is the panic-on-failure variant of Build.
func (p *Proxy) MustBuild(operation string, args intent.Args) Effect {
	eff, err := p.Build(operation, args)
	if err != nil {
		panic(err)
	}
	return eff
}
