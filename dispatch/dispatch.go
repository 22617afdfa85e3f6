// Package dispatch routes intents to performers.
//
// A Dispatcher is an immutable routing table from concrete intent type to
// the Performer responsible for it. Fragments come from Bind, which turns
// any value with one method per operation into a dispatcher, and Compose
// stacks fragments with first-match-wins precedence.
package dispatch

import (
	"context"
	"fmt"

	"github.com/sarum90/ziffect/intent"
)

// ErrPerformerMissing reports an intent type no dispatcher claims, or a
// bound implementation lacking the operation's method. It signals a wiring
// defect, not a data condition: the engine aborts the run on it.
var ErrPerformerMissing = fmt.Errorf("no performer for intent type")

// Performer executes one intent type. The returned value (or error) is
// resumed into the computation at its suspension point.
type Performer func(ctx context.Context, in intent.Intent) (any, error)

// Dispatcher maps concrete intent types to performers. Lookup is by exact
// Key; structural similarity between operations never matches.
type Dispatcher interface {
	Lookup(key intent.Key) (Performer, bool)
}

// TypeDispatcher is the primitive routing table.
type TypeDispatcher map[intent.Key]Performer

func (d TypeDispatcher) Lookup(key intent.Key) (Performer, bool) {
	p, ok := d[key]
	return p, ok
}

// Compose stacks dispatchers: lookups scan in argument order and the first
// claim wins, so earlier fragments override later ones.
func Compose(ds ...Dispatcher) Dispatcher {
	return composed(ds)
}

type composed []Dispatcher

func (c composed) Lookup(key intent.Key) (Performer, bool) {
	for _, d := range c {
		if p, ok := d.Lookup(key); ok {
			return p, true
		}
	}
	return nil, false
}
