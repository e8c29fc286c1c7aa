package metrics

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

func reference(u dynamo.Control) float64 {
	if len(u) == 0 {
		return 0
	}
	return u[0]
}

// IAE integrates |x - y| over time with the left rectangle rule.
type IAE struct {
	name    string
	sum     float64
	prevT   float64
	prevErr float64
	samples int
}

func NewIAE() *IAE {
	return &IAE{name: "iae"}
}

func (m *IAE) Name() string { return m.name }

func (m *IAE) Observe(x dynamo.State, u dynamo.Control, t float64) {
	err := math.Abs(reference(u) - x[0])
	if m.samples > 0 {
		m.sum += m.prevErr * (t - m.prevT)
	}
	m.prevT, m.prevErr = t, err
	m.samples++
}

func (m *IAE) Value() float64 { return m.sum }

func (m *IAE) Reset() {
	m.sum, m.prevT, m.prevErr = 0, 0, 0
	m.samples = 0
}

// Peak is the largest |y| seen.
type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (m *Peak) Name() string { return m.name }

func (m *Peak) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if a := math.Abs(x[0]); a > m.peak || math.IsNaN(a) {
		m.peak = a
	}
}

func (m *Peak) Value() float64 { return m.peak }

func (m *Peak) Reset() { m.peak = 0 }

// Overshoot is the maximum excursion of y beyond the reference, in percent
// of the reference. Zero when the output never crosses it.
type Overshoot struct {
	name string
	max  float64
	ref  float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot_pct"}
}

func (m *Overshoot) Name() string { return m.name }

func (m *Overshoot) Observe(x dynamo.State, u dynamo.Control, t float64) {
	m.ref = reference(u)
	if x[0] > m.max {
		m.max = x[0]
	}
}

func (m *Overshoot) Value() float64 {
	if m.ref == 0 || m.max <= m.ref {
		return 0
	}
	return (m.max - m.ref) / math.Abs(m.ref) * 100
}

func (m *Overshoot) Reset() { m.max, m.ref = 0, 0 }

// RiseTime is the time y takes to go from 10% to 90% of the reference.
// NaN until both crossings have been observed.
type RiseTime struct {
	name     string
	t10, t90 float64
	seen10   bool
	seen90   bool
}

func NewRiseTime() *RiseTime {
	return &RiseTime{name: "rise_time"}
}

func (m *RiseTime) Name() string { return m.name }

func (m *RiseTime) Observe(x dynamo.State, u dynamo.Control, t float64) {
	ref := reference(u)
	if !m.seen10 && x[0] >= 0.1*ref {
		m.t10, m.seen10 = t, true
	}
	if !m.seen90 && x[0] >= 0.9*ref {
		m.t90, m.seen90 = t, true
	}
}

func (m *RiseTime) Value() float64 {
	if !m.seen10 || !m.seen90 {
		return math.NaN()
	}
	return m.t90 - m.t10
}

func (m *RiseTime) Reset() {
	m.t10, m.t90 = 0, 0
	m.seen10, m.seen90 = false, false
}

// SettlingTime is the last time y was outside the ±band·x envelope around
// the reference. NaN if the run ends outside the band.
type SettlingTime struct {
	name       string
	band       float64
	lastOut    float64
	endsInside bool
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{name: "settling_time", band: band}
}

func (m *SettlingTime) Name() string { return m.name }

func (m *SettlingTime) Observe(x dynamo.State, u dynamo.Control, t float64) {
	ref := reference(u)
	if math.Abs(x[0]-ref) > m.band*math.Abs(ref) || math.IsNaN(x[0]) {
		m.lastOut = t
		m.endsInside = false
		return
	}
	m.endsInside = true
}

func (m *SettlingTime) Value() float64 {
	if !m.endsInside {
		return math.NaN()
	}
	return m.lastOut
}

func (m *SettlingTime) Reset() {
	m.lastOut = 0
	m.endsInside = false
}
