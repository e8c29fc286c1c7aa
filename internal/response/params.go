package response

import (
	"fmt"
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// MaxSamples caps the trace length so a tiny step cannot exhaust memory.
const MaxSamples = 10_000_000

// Params are the scalar inputs of one run. Kp is the effective gain, with
// any percentage increase already applied.
type Params struct {
	Kp   float64 `json:"kp" yaml:"kp"`
	Xi   float64 `json:"xi" yaml:"xi"`
	H    float64 `json:"h" yaml:"h"`
	TEnd float64 `json:"t_end" yaml:"t_end"`
}

// EffectiveGain applies a percentage increase to a nominal gain.
func EffectiveGain(nominal, percent float64) float64 {
	return nominal * (1 + percent/100)
}

func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"kp", p.Kp},
		{"xi", p.Xi},
		{"h", p.H},
		{"t_end", p.TEnd},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s = %v is not finite: %w", f.name, f.value, dynamo.ErrParameterBounds)
		}
	}

	if p.H <= 0 {
		return fmt.Errorf("step size h must be positive, got %g: %w", p.H, dynamo.ErrParameterBounds)
	}
	if p.TEnd < 0 {
		return fmt.Errorf("horizon t_end must be non-negative, got %g: %w", p.TEnd, dynamo.ErrParameterBounds)
	}
	if p.TEnd/p.H >= MaxSamples {
		return fmt.Errorf("t_end/h = %g exceeds %d samples: %w", p.TEnd/p.H, MaxSamples, dynamo.ErrParameterBounds)
	}
	return nil
}

// Samples is floor(TEnd/H) + 1. Only meaningful for validated params.
func (p Params) Samples() int {
	return int(p.TEnd/p.H) + 1
}
