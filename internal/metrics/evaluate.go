package metrics

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/response"
)

const (
	DefaultSettlingBand   = 0.02
	DefaultStabilityBound = 1e3
)

// Default is the metric set reported by the CLI and the TUI.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewOvershoot(),
		NewPeak(),
		NewIAE(),
		NewRiseTime(),
		NewSettlingTime(DefaultSettlingBand),
		NewStability(DefaultStabilityBound),
	}
}

// Evaluate replays a trace through the metrics, resetting each first.
func Evaluate(tr *response.Trace, ms ...dynamo.Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}

	u := dynamo.Control{response.Reference}
	x := make(dynamo.State, 2)
	for i := 0; i < tr.Len(); i++ {
		x[0], x[1] = tr.Y[i], tr.DY[i]
		for _, m := range ms {
			m.Observe(x, u, tr.T[i])
		}
	}

	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return values
}

// Diverged reports whether |y| left ±bound or went non-finite.
func Diverged(tr *response.Trace, bound float64) bool {
	for _, v := range tr.Y {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > bound {
			return true
		}
	}
	return false
}
