package sweep

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/models"
	"github.com/san-kum/stepsim/internal/response"
)

// WithParam returns p with the named loop parameter overridden. Names are
// the ones the closed loop exposes ("kp", "xi").
func WithParam(p response.Params, name string, value float64) (response.Params, error) {
	var loop dynamo.Configurable = models.NewClosedLoop(p.Kp, p.Xi)
	if err := loop.SetParam(name, value); err != nil {
		return p, err
	}
	vals := loop.GetParams()
	p.Kp, p.Xi = vals["kp"], vals["xi"]
	return p, nil
}

// GainSweep reruns Base with the nominal gain raised by each percentage.
type GainSweep struct {
	Base     response.Params
	Percents []float64
}

// GainResult summarises one run of a gain sweep.
type GainResult struct {
	Percent   float64
	Kp        float64
	Overshoot float64
	IAE       float64
	Peak      float64
	Diverged  bool
}

func (g *GainSweep) Run(ctx context.Context) ([]GainResult, error) {
	results := make([]GainResult, 0, len(g.Percents))
	for _, pct := range g.Percents {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p, err := WithParam(g.Base, "kp", response.EffectiveGain(g.Base.Kp, pct))
		if err != nil {
			return results, err
		}
		r, err := evaluate(p)
		if err != nil {
			return results, err
		}
		r.Percent = pct
		results = append(results, r)
	}
	return results, nil
}

// ParamSweep reruns Base with one named loop parameter set to each value.
type ParamSweep struct {
	Base   response.Params
	Param  string
	Values []float64
}

// ParamResult summarises one run of a parameter sweep.
type ParamResult struct {
	Value float64
	GainResult
}

func (s *ParamSweep) Run(ctx context.Context) ([]ParamResult, error) {
	results := make([]ParamResult, 0, len(s.Values))
	for _, v := range s.Values {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p, err := WithParam(s.Base, s.Param, v)
		if err != nil {
			return results, err
		}
		r, err := evaluate(p)
		if err != nil {
			return results, err
		}
		results = append(results, ParamResult{Value: v, GainResult: r})
	}
	return results, nil
}

func evaluate(p response.Params) (GainResult, error) {
	tr, err := response.Simulate(p)
	if err != nil {
		return GainResult{}, err
	}

	m := metrics.Evaluate(tr, metrics.NewIAE(), metrics.NewPeak(), metrics.NewOvershoot())
	return GainResult{
		Kp:        p.Kp,
		Overshoot: m["overshoot_pct"],
		IAE:       m["iae"],
		Peak:      m["peak"],
		Diverged:  metrics.Diverged(tr, metrics.DefaultStabilityBound),
	}, nil
}

// StepScan reruns Base with each step size h.
type StepScan struct {
	Base  response.Params
	Steps []float64
}

type ScanResult struct {
	H        float64
	Samples  int
	Peak     float64
	Final    float64
	Diverged bool
}

func (s *StepScan) Run(ctx context.Context) ([]ScanResult, error) {
	results := make([]ScanResult, 0, len(s.Steps))
	for _, h := range s.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p := s.Base
		p.H = h
		tr, err := response.Simulate(p)
		if err != nil {
			return results, err
		}

		m := metrics.Evaluate(tr, metrics.NewPeak())
		results = append(results, ScanResult{
			H:        h,
			Samples:  tr.Len(),
			Peak:     m["peak"],
			Final:    tr.Y[tr.Len()-1],
			Diverged: metrics.Diverged(tr, metrics.DefaultStabilityBound),
		})
	}
	return results, nil
}

// Range returns n evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
