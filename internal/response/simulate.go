package response

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/models"
)

// Simulate integrates the closed loop from rest under a unit step.
//
// The sweep fills the feedback and error taps for indices 0..N-2 from the
// state before each update; the taps of the final index are closed from the
// final state after the loop.
func Simulate(p Params) (*Trace, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Samples()
	tr := newTrace(p, n)
	if n > 1 {
		floats.Span(tr.T, 0, p.TEnd)
	}

	loop := models.NewClosedLoop(p.Kp, p.Xi)
	var euler dynamo.Integrator = integrators.NewEuler()
	u := dynamo.Control{Reference}
	x := dynamo.State{0, 0}

	for i := 0; i < n-1; i++ {
		tr.F[i] = loop.Feedback(x)
		tr.E[i] = Reference - tr.F[i]

		x = euler.Step(loop, x, u, tr.T[i], p.H)
		tr.Y[i+1] = x[0]
		tr.DY[i+1] = x[1]
	}

	tr.F[n-1] = loop.Feedback(x)
	tr.E[n-1] = Reference - tr.F[n-1]

	return tr, nil
}

// SimulateEffective applies the gain increase before simulating.
func SimulateEffective(kpNominal, percent, xi, h, tEnd float64) (*Trace, error) {
	return Simulate(Params{
		Kp:   EffectiveGain(kpNominal, percent),
		Xi:   xi,
		H:    h,
		TEnd: tEnd,
	})
}
