// Package perform runs cooperative effectful computations to completion.
//
// A computation is a chain of Steps. Each Do step yields exactly one effect
// and names the continuation that receives the performer's value or error;
// the continuation recovers, fails, or yields the next effect. Sync drives
// the chain single-threadedly against one dispatcher: no goroutines, no
// timers, one effect fully resolved before the next is produced.
package perform

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarum90/ziffect/dispatch"
	"github.com/sarum90/ziffect/effect"
)

// Step is one state of a computation. The concrete steps are sealed: only
// Done, Fail, Do, and Then produce them.
type Step interface {
	step()
}

type doneStep struct{ value any }

type failStep struct{ err error }

type effectStep struct {
	eff  effect.Effect
	next func(value any, err error) Step
}

func (doneStep) step()   {}
func (failStep) step()   {}
func (effectStep) step() {}

// Done completes the computation with its final value.
func Done(value any) Step { return doneStep{value: value} }

// Fail aborts the computation with a terminal error.
func Fail(err error) Step { return failStep{err: err} }

// Do suspends on one effect. The continuation receives the performer's
// outcome at this exact suspension point: a value on success, the
// performer's error otherwise, and decides how the computation proceeds.
// Recovery policies (inspect, branch, retry) live entirely in continuations.
func Do(eff effect.Effect, next func(value any, err error) Step) Step {
	return effectStep{eff: eff, next: next}
}

// Then is Do with fail-fast error handling: a performer error terminates the
// computation unrecovered.
func Then(eff effect.Effect, next func(value any) Step) Step {
	return Do(eff, func(value any, err error) Step {
		if err != nil {
			return Fail(err)
		}
		return next(value)
	})
}

// Sync drives a computation to completion against a dispatcher, returning
// its final value or the terminal error. An intent type the dispatcher does
// not claim aborts the run with dispatch.ErrPerformerMissing; that is a
// wiring defect and is never resumed into the computation.
func Sync(ctx context.Context, d dispatch.Dispatcher, s Step) (any, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch st := s.(type) {
		case doneStep:
			return st.value, nil
		case failStep:
			return nil, st.err
		case effectStep:
			in := st.eff.Intent
			p, ok := d.Lookup(in.Key())
			if !ok {
				return nil, fmt.Errorf("%w: %s", dispatch.ErrPerformerMissing, in)
			}
			value, err := p(ctx, in)
			if errors.Is(err, dispatch.ErrPerformerMissing) {
				return nil, err
			}
			s = st.next(value, err)
		default:
			return nil, fmt.Errorf("unknown step type %T", s)
		}
	}
}
