package efftest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarum90/ziffect/dispatch"
	"github.com/sarum90/ziffect/effect"
	"github.com/sarum90/ziffect/efftest"
	"github.com/sarum90/ziffect/iface"
	"github.com/sarum90/ziffect/intent"
	"github.com/sarum90/ziffect/perform"
)

func utilsInterface(t *testing.T) *iface.Interface {
	t.Helper()
	return iface.MustNew("Utils",
		iface.Op("add",
			iface.Arg("operator_a", iface.Int),
			iface.Arg("operator_b", iface.Int),
		),
		iface.Op("concat",
			iface.Arg("operator_a", iface.String),
			iface.Arg("operator_b", iface.String),
		),
	)
}

func TestSequence_ScriptsOutcomes(t *testing.T) {
	ifc := utilsInterface(t)
	fx := effect.ProxyFor(ifc)
	intents := intent.BuilderFor(ifc)

	errDown := errors.New("backend down")
	seq := efftest.NewSequence(t,
		efftest.Expect{
			Intent: intents.MustBuild("add", intent.Args{"operator_a": 12, "operator_b": 23}),
			Return: 35,
		},
		efftest.Expect{
			Intent: intents.MustBuild("concat", intent.Args{"operator_a": "a", "operator_b": "b"}),
			Err:    errDown,
		},
	)

	var sawErr error
	comp := perform.Then(
		fx.MustBuild("add", intent.Args{"operator_a": 12, "operator_b": 23}),
		func(v any) perform.Step {
			require.Equal(t, 35, v)
			return perform.Do(
				fx.MustBuild("concat", intent.Args{"operator_a": "a", "operator_b": "b"}),
				func(_ any, err error) perform.Step {
					sawErr = err
					return perform.Done("recovered")
				},
			)
		},
	)

	v, err := perform.Sync(context.Background(), seq, comp)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.ErrorIs(t, sawErr, errDown)
	seq.AssertConsumed()
}

// fakeT captures require failures instead of stopping the test run.
type fakeT struct {
	failed   bool
	messages []string
}

type failNow struct{}

func (f *fakeT) Errorf(format string, args ...interface{}) {
	f.failed = true
	f.messages = append(f.messages, fmt.Sprintf(format, args...))
}

func (f *fakeT) FailNow() {
	f.failed = true
	panic(failNow{})
}

func dispatchRecovering(seq *efftest.Sequence, in intent.Intent) {
	defer func() {
		if r := recover(); r != nil {
			if _, expected := r.(failNow); !expected {
				panic(r)
			}
		}
	}()
	p, _ := seq.Lookup(in.Key())
	_, _ = p(context.Background(), in)
}

func TestSequence_FailsOnUnexpectedIntent(t *testing.T) {
	ifc := utilsInterface(t)
	intents := intent.BuilderFor(ifc)

	ft := &fakeT{}
	seq := efftest.NewSequence(ft,
		efftest.Expect{Intent: intents.MustBuild("add", intent.Args{"operator_a": 1, "operator_b": 2})},
	)

	dispatchRecovering(seq, intents.MustBuild("add", intent.Args{"operator_a": 9, "operator_b": 2}))
	assert.True(t, ft.failed)
}

func TestSequence_FailsBeyondScript(t *testing.T) {
	ifc := utilsInterface(t)
	intents := intent.BuilderFor(ifc)

	ft := &fakeT{}
	seq := efftest.NewSequence(ft)

	dispatchRecovering(seq, intents.MustBuild("add", intent.Args{"operator_a": 1, "operator_b": 2}))
	assert.True(t, ft.failed)
}

func TestSequence_AssertConsumed(t *testing.T) {
	ifc := utilsInterface(t)
	intents := intent.BuilderFor(ifc)

	ft := &fakeT{}
	seq := efftest.NewSequence(ft,
		efftest.Expect{Intent: intents.MustBuild("add", intent.Args{"operator_a": 1, "operator_b": 2})},
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, expected := r.(failNow); !expected {
					panic(r)
				}
			}
		}()
		seq.AssertConsumed()
	}()
	assert.True(t, ft.failed, "unconsumed script entries fail the test")
}

type utilsImpl struct{}

func (utilsImpl) Add(a, b int) int          { return a + b }
func (utilsImpl) Concat(a, b string) string { return a + b }

func TestRecorder_CapturesDispatchOrder(t *testing.T) {
	ifc := utilsInterface(t)
	fx := effect.ProxyFor(ifc)
	intents := intent.BuilderFor(ifc)

	rec := efftest.NewRecorder(dispatch.Bind(ifc, utilsImpl{}))

	comp := perform.Then(
		fx.MustBuild("add", intent.Args{"operator_a": 1, "operator_b": 2}),
		func(any) perform.Step {
			return perform.Then(
				fx.MustBuild("concat", intent.Args{"operator_a": "a", "operator_b": "b"}),
				perform.Done,
			)
		},
	)

	_, err := perform.Sync(context.Background(), rec, comp)
	require.NoError(t, err)

	got := rec.Intents()
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(intents.MustBuild("add", intent.Args{"operator_a": 1, "operator_b": 2})))
	assert.True(t, got[1].Equal(intents.MustBuild("concat", intent.Args{"operator_a": "a", "operator_b": "b"})))
}

func TestRecorder_PassesThroughMisses(t *testing.T) {
	rec := efftest.NewRecorder(dispatch.TypeDispatcher{})
	_, ok := rec.Lookup(intent.Key{Operation: "add"})
	assert.False(t, ok)
}

type addOnly struct{}

func (addOnly) Add(a, b int) int { return a + b }

func TestProvides(t *testing.T) {
	ifc := utilsInterface(t)

	require.NoError(t, efftest.Provides(ifc, utilsImpl{}))

	err := efftest.Provides(ifc, addOnly{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Concat")
	assert.Contains(t, err.Error(), "Utils.concat")
}
