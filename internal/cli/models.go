package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/probkit/probkit/pkg/dist"
	"github.com/probkit/probkit/pkg/graph"
	"github.com/probkit/probkit/pkg/model"
	"github.com/probkit/probkit/pkg/sampler"
)

// disastersData is the annual count of UK coal mining disasters, 1851-1962.
var disastersData = []float64{
	4, 5, 4, 0, 1, 4, 3, 4, 0, 6, 3, 3, 4, 0, 2, 6,
	3, 3, 5, 4, 5, 3, 1, 4, 4, 1, 5, 5, 3, 4, 2, 5,
	2, 2, 3, 4, 2, 1, 3, 2, 2, 1, 1, 1, 1, 3, 0, 0,
	1, 0, 1, 1, 0, 0, 3, 1, 0, 3, 2, 2, 0, 1, 1, 1,
	0, 1, 0, 1, 0, 0, 0, 2, 1, 0, 0, 0, 1, 1, 0, 2,
	3, 3, 1, 1, 2, 1, 1, 1, 1, 2, 4, 2, 0, 0, 1, 4,
	0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 1, 0, 1,
}

// BuiltinModel bundles a model with the sampler settings it needs.
type BuiltinModel struct {
	Model     *model.Model
	Proposals map[string]sampler.Proposal
}

// modelBuilders maps model names to constructors.
var modelBuilders = map[string]func() (*BuiltinModel, error){
	"disasters": disastersModel,
}

// ModelNames returns the bundled model names in ascending order.
func ModelNames() []string {
	return slices.Sorted(maps.Keys(modelBuilders))
}

// BuildModel constructs the bundled model with the given name.
func BuildModel(name string) (*BuiltinModel, error) {
	build, ok := modelBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %v)", name, ModelNames())
	}
	return build()
}

// disastersModel is the coal mining disasters changepoint model:
//
//	switchpoint ~ DiscreteUniform(0, 110)
//	early_mean  ~ Exponential(1)
//	late_mean   ~ Exponential(1)
//	disasters[t] ~ Poisson(early_mean) for t < switchpoint, else Poisson(late_mean)
func disastersModel() (*BuiltinModel, error) {
	n := len(disastersData)

	switchpoint := graph.NewStochastic("switchpoint", 50.0,
		graph.WithParents(graph.Parents{"length": float64(n - 1)}),
		graph.WithLogProb(func(value any, args map[string]any) (float64, error) {
			return dist.DiscreteUniformLogP(value.(float64), 0, int(args["length"].(float64)))
		}),
	)

	expLogP := func(value any, args map[string]any) (float64, error) {
		return dist.ExponentialLogP(value.(float64), args["rate"].(float64))
	}
	earlyMean := graph.NewStochastic("early_mean", 1.0,
		graph.WithParents(graph.Parents{"rate": 1.0}),
		graph.WithLogProb(expLogP),
	)
	lateMean := graph.NewStochastic("late_mean", 1.0,
		graph.WithParents(graph.Parents{"rate": 1.0}),
		graph.WithLogProb(expLogP),
	)

	disasters := graph.NewStochastic("disasters", disastersData,
		graph.WithParents(graph.Parents{
			"early_mean":  earlyMean,
			"late_mean":   lateMean,
			"switchpoint": switchpoint,
		}),
		graph.WithLogProb(func(value any, args map[string]any) (float64, error) {
			counts := value.([]float64)
			sp := int(args["switchpoint"].(float64))
			early := args["early_mean"].(float64)
			late := args["late_mean"].(float64)

			total := 0.0
			for t, k := range counts {
				mean := late
				if t < sp {
					mean = early
				}
				lp, err := dist.PoissonLogP(k, mean)
				if err != nil {
					return 0, err
				}
				total += lp
			}
			return total, nil
		}),
		graph.Observed(),
	)

	m, err := model.New(map[string]any{
		"switchpoint": switchpoint,
		"early_mean":  earlyMean,
		"late_mean":   lateMean,
		"disasters":   disasters,
	})
	if err != nil {
		return nil, err
	}

	return &BuiltinModel{
		Model: m,
		Proposals: map[string]sampler.Proposal{
			"switchpoint": sampler.IntegerWalk(5, 0, n-1),
			"early_mean":  sampler.RandomWalk(0.5),
			"late_mean":   sampler.RandomWalk(0.25),
		},
	}, nil
}
