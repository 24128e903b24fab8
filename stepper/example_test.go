package stepper_test

import (
	"fmt"

	"github.com/katalvlaran/nmcgraph/graph"
	"github.com/katalvlaran/nmcgraph/stepper"
)

// ExampleDirichletGamma_Step advances a 3-dimensional Dirichlet(2, 3, 5)
// chain for a few sweeps. The sample's value stays on the simplex after
// every step: strictly positive coordinates summing to one.
func ExampleDirichletGamma_Step() {
	g := graph.New()
	conc, _ := g.AddConstantVector([]float64{2, 3, 5})
	dirichlet, _ := g.AddDirichlet(conc)
	target, _ := g.AddSample(dirichlet)

	st, _ := stepper.NewDirichletGamma(g, stepper.NewRandSampler(42))
	for i := 0; i < 10; i++ {
		if err := st.Step(target); err != nil {
			fmt.Println("step:", err)
			return
		}
	}

	n, _ := g.SampleNodeAt(target)
	y, _ := n.Value.Array()
	sum, positive := 0.0, true
	for _, v := range y {
		sum += v
		positive = positive && v > 0
	}
	fmt.Printf("dim=%d sum=%.3f positive=%t\n", len(y), sum, positive)

	// Output:
	// dim=3 sum=1.000 positive=true
}
