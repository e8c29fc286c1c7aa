package integrators

import "github.com/san-kum/stepsim/internal/dynamo"

// Euler advances a state by one explicit (forward) Euler step:
// x[n+1] = x[n] + dt*f(x[n], u, t). It keeps no scratch state and is safe
// to share.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
