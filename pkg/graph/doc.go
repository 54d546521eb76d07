// Package graph implements the variable dependency model at the heart of
// probkit: stochastic and deterministic variables connected by parent/child
// edges.
//
// A [Stochastic] holds a value that is assigned from outside (by a sampling
// driver, or fixed by observed data). A [Deterministic] computes its value
// from its parents and caches the result; assigning a new value to any
// upstream stochastic marks every transitive deterministic descendant stale,
// and the next value pull recomputes it.
//
// Variables are identified by name within a [Graph] and by a unique ID
// globally. Two variables are never equal by content; identity is the graph
// key.
//
// # Building a model fragment
//
//	mu := graph.NewStochastic("mu", 0.0)
//	tau := graph.NewStochastic("tau", 1.0)
//	sd := graph.NewDeterministic("sd", graph.Parents{"tau": tau},
//	    func(args map[string]any) (any, error) {
//	        return 1 / math.Sqrt(args["tau"].(float64)), nil
//	    })
//
// Cycles are rejected when a Graph (or a container, see package container) is
// constructed, never silently tolerated.
package graph
