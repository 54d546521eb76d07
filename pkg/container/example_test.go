package container_test

import (
	"fmt"

	"github.com/probkit/probkit/pkg/container"
	"github.com/probkit/probkit/pkg/graph"
)

func ExampleNew() {
	rate := graph.NewStochastic("rate", 2.0)
	c, err := container.New([]any{rate, "fixed", 10})
	if err != nil {
		panic(err)
	}
	fmt.Println(c.Kind(), c.NumVariable(), c.NumConstant())
	fmt.Println(c.Value())

	_ = rate.SetValue(5.0)
	_ = c.Refresh()
	fmt.Println(c.Value())
	// Output:
	// slice 1 2
	// [2 fixed 10]
	// [5 fixed 10]
}

func ExampleNewObject() {
	mu := graph.NewStochastic("mu", 0.5)
	o := container.NewObject().
		Set("mu", mu).
		Set("n", 100)

	c, err := container.NewObjectContainer(o)
	if err != nil {
		panic(err)
	}
	snap := c.Snapshot()
	v, _ := snap.Get("mu")
	n, _ := snap.Get("n")
	fmt.Println(v, n)
	// Output:
	// 0.5 100
}
