package perform_test

import (
	"context"
	"fmt"

	"github.com/sarum90/ziffect/dispatch"
	"github.com/sarum90/ziffect/effect"
	"github.com/sarum90/ziffect/iface"
	"github.com/sarum90/ziffect/intent"
	"github.com/sarum90/ziffect/perform"
)

// calculator is an ordinary value: one method per declared operation.
type calculator struct{}

func (calculator) Add(a, b int) int { return a + b }

func ExampleSync() {
	// Declare the interface once; it is the schema everything derives from.
	utils := iface.MustNew("Utils",
		iface.Op("add",
			iface.Arg("operator_a", iface.Int),
			iface.Arg("operator_b", iface.Int),
		),
	)

	// The effects proxy describes calls; binding an implementation routes them.
	fx := effect.ProxyFor(utils)
	d := dispatch.Bind(utils, calculator{})

	comp := perform.Then(
		fx.MustBuild("add", intent.Args{"operator_a": 12, "operator_b": 23}),
		perform.Done,
	)

	v, err := perform.Sync(context.Background(), d, comp)
	fmt.Println(v, err)
	// Output: 35 <nil>
}
