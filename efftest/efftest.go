// Package efftest provides dispatchers for testing effectful computations.
//
// Sequence scripts the exact intents a computation is expected to dispatch
// and the outcomes to resume; Recorder captures the dispatched intents of a
// real run. Both are ordinary dispatchers substituted at composition time,
// so the code under test is unaware it is being observed.
package efftest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/sarum90/ziffect/dispatch"
	"github.com/sarum90/ziffect/iface"
	"github.com/sarum90/ziffect/intent"
)

// Expect scripts one dispatch: the intent the computation must produce and
// the outcome resumed into it. A non-nil Err is delivered as the performer's
// failure; Return is ignored in that case.
type Expect struct {
	Intent intent.Intent
	Return any
	Err    error
}

// Sequence is a dispatcher that requires the computation to dispatch exactly
// the scripted intents, in order. Claims every intent type; an out-of-order
// or unequal intent fails the test with a diffable representation.
type Sequence struct {
	t       require.TestingT
	expects []Expect
	pos     int
}

// NewSequence scripts a dispatch sequence against t.
func NewSequence(t require.TestingT, expects ...Expect) *Sequence {
	return &Sequence{t: t, expects: expects}
}

func (s *Sequence) Lookup(intent.Key) (dispatch.Performer, bool) {
	return s.perform, true
}

func (s *Sequence) perform(_ context.Context, in intent.Intent) (any, error) {
	require.Less(s.t, s.pos, len(s.expects),
		"dispatch beyond scripted sequence: %s", in)
	exp := s.expects[s.pos]
	s.pos++
	require.Equal(s.t, exp.Intent.String(), in.String(),
		"intent mismatch at sequence step %d", s.pos-1)
	require.True(s.t, exp.Intent.Equal(in),
		"intent mismatch at sequence step %d: want %s, got %s", s.pos-1, exp.Intent, in)
	return exp.Return, exp.Err
}

// AssertConsumed fails the test if scripted dispatches remain unconsumed.
func (s *Sequence) AssertConsumed() {
	require.Equal(s.t, len(s.expects), s.pos,
		"computation completed with %d scripted dispatches unconsumed", len(s.expects)-s.pos)
}

// Recorder decorates a dispatcher and captures every dispatched intent in
// order, for asserting on the effect sequence of a run.
type Recorder struct {
	next    dispatch.Dispatcher
	intents []intent.Intent
}

// NewRecorder records the intents dispatched through next.
func NewRecorder(next dispatch.Dispatcher) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Lookup(key intent.Key) (dispatch.Performer, bool) {
	p, ok := r.next.Lookup(key)
	if !ok {
		return nil, false
	}
	return func(ctx context.Context, in intent.Intent) (any, error) {
		r.intents = append(r.intents, in)
		return p(ctx, in)
	}, true
}

// Intents returns the recorded intents in dispatch order.
func (r *Recorder) Intents() []intent.Intent {
	out := make([]intent.Intent, len(r.intents))
	copy(out, r.intents)
	return out
}

// Provides reports whether impl exposes a method for every operation of
// ifc, naming each missing one. Binding never performs this check; Provides
// exists for tests that want the defect surfaced before execution.
func Provides(ifc *iface.Interface, impl any) error {
	rv := reflect.ValueOf(impl)
	var errs error
	for _, op := range ifc.Operations() {
		name := dispatch.MethodName(op.Name())
		if !rv.MethodByName(name).IsValid() {
			errs = multierr.Append(errs, fmt.Errorf(
				"%T has no method %s for operation %s.%s", impl, name, ifc.Name(), op.Name()))
		}
	}
	return errs
}
