package models

import (
	"fmt"
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

const (
	DefaultGain    = 1.0
	DefaultDamping = 0.7
	DefaultPercent = 30.0
)

// ClosedLoop is a proportional controller with velocity feedback closed
// around a double integrator:
//
//	ÿ + 2ξẏ + Kp·y = Kp·x
//
// State is [y, ẏ]; the single control input is the reference x.
type ClosedLoop struct {
	Kp float64
	Xi float64
}

func NewClosedLoop(kp, xi float64) *ClosedLoop {
	return &ClosedLoop{Kp: kp, Xi: xi}
}

func (c *ClosedLoop) StateDim() int   { return 2 }
func (c *ClosedLoop) ControlDim() int { return 1 }

func (c *ClosedLoop) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	ref := 0.0
	if len(u) > 0 {
		ref = u[0]
	}
	y, dy := x[0], x[1]
	return dynamo.State{
		dy,
		-c.Kp*y - 2*c.Xi*dy + c.Kp*ref,
	}
}

// Feedback is the measured signal f = y + 2ξẏ. It folds the damping term
// into the measurement rather than feeding back y alone.
func (c *ClosedLoop) Feedback(x dynamo.State) float64 {
	return x[0] + 2*c.Xi*x[1]
}

// NaturalFrequency returns √Kp in rad/s, or 0 for a non-positive gain.
func (c *ClosedLoop) NaturalFrequency() float64 {
	if c.Kp <= 0 {
		return 0
	}
	return math.Sqrt(c.Kp)
}

// DampingRatio is ξ/√Kp, the textbook ζ of the loop. With Kp = 1 it equals ξ.
func (c *ClosedLoop) DampingRatio() float64 {
	wn := c.NaturalFrequency()
	if wn == 0 {
		return 0
	}
	return c.Xi / wn
}

// DampedFrequency is ωn·√(1−ζ²), the ringing frequency of the continuous
// loop. It is 0 when the loop is critically damped or slower.
func (c *ClosedLoop) DampedFrequency() float64 {
	zeta := c.DampingRatio()
	if zeta >= 1 {
		return 0
	}
	return c.NaturalFrequency() * math.Sqrt(1-zeta*zeta)
}

func (c *ClosedLoop) GetParams() map[string]float64 {
	return map[string]float64{"kp": c.Kp, "xi": c.Xi}
}

func (c *ClosedLoop) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		c.Kp = value
	case "xi":
		c.Xi = value
	default:
		return fmt.Errorf("closed loop %q: %w", name, dynamo.ErrUnknownParameter)
	}
	return nil
}
