package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/response"
)

func simulate(t *testing.T, p response.Params) *response.Trace {
	t.Helper()
	tr, err := response.Simulate(p)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	return tr
}

func TestStability(t *testing.T) {
	m := NewStability(10.0)
	u := dynamo.Control{}

	m.Observe(dynamo.State{1.0, 0.0}, u, 0)
	m.Observe(dynamo.State{20.0, 0.0}, u, 0.1)
	m.Observe(dynamo.State{math.NaN(), 0.0}, u, 0.2)
	m.Observe(dynamo.State{0.0, 0.0}, u, 0.3)

	if v := m.Value(); math.Abs(v-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", v)
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("expected 1.0 after reset")
	}
}

func TestIAEConstantError(t *testing.T) {
	m := NewIAE()
	u := dynamo.Control{1.0}

	for i := 0; i <= 10; i++ {
		m.Observe(dynamo.State{0.0, 0.0}, u, float64(i)*0.1)
	}

	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("expected IAE 1.0, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestOvershoot(t *testing.T) {
	m := NewOvershoot()
	u := dynamo.Control{1.0}

	m.Observe(dynamo.State{0.5, 0}, u, 0)
	if m.Value() != 0 {
		t.Errorf("expected no overshoot yet, got %f", m.Value())
	}

	m.Observe(dynamo.State{1.25, 0}, u, 1)
	if math.Abs(m.Value()-25) > 1e-9 {
		t.Errorf("expected 25%%, got %f", m.Value())
	}
}

func TestRiseAndSettlingUnset(t *testing.T) {
	rise := NewRiseTime()
	settle := NewSettlingTime(0.02)
	u := dynamo.Control{1.0}

	rise.Observe(dynamo.State{0.05, 0}, u, 0)
	settle.Observe(dynamo.State{0.05, 0}, u, 0)

	if !math.IsNaN(rise.Value()) {
		t.Errorf("expected NaN rise time, got %f", rise.Value())
	}
	if !math.IsNaN(settle.Value()) {
		t.Errorf("expected NaN settling time, got %f", settle.Value())
	}
}

func TestEvaluateNominal(t *testing.T) {
	tr := simulate(t, response.Params{Kp: 1.0, Xi: 0.7, H: 0.02, TEnd: 10})

	values := Evaluate(tr, Default()...)

	if len(values) != 6 {
		t.Fatalf("expected 6 metrics, got %d", len(values))
	}
	if over := values["overshoot_pct"]; over <= 0 || over > 10 {
		t.Errorf("expected a small overshoot for xi=0.7, got %f", over)
	}
	if rt := values["rise_time"]; rt < 1 || rt > 4 {
		t.Errorf("rise time out of range: %f", rt)
	}
	if st := values["settling_time"]; math.IsNaN(st) || st > 10 {
		t.Errorf("expected the run to settle, got %f", st)
	}
	if values["stability"] != 1.0 {
		t.Errorf("expected a bounded run, got %f", values["stability"])
	}
	if Diverged(tr, DefaultStabilityBound) {
		t.Error("nominal run should not diverge")
	}
}

func TestEvaluateDivergent(t *testing.T) {
	tr := simulate(t, response.Params{Kp: 10000, Xi: 0.7, H: 0.02, TEnd: 10})

	values := Evaluate(tr, NewStability(DefaultStabilityBound), NewPeak())

	if values["stability"] > 0.9 {
		t.Errorf("expected most samples to be out of bounds, got %f", values["stability"])
	}
	if values["peak"] < 1e100 {
		t.Errorf("expected huge peak, got %g", values["peak"])
	}
	if !Diverged(tr, DefaultStabilityBound) {
		t.Error("expected divergence")
	}
}

func TestEvaluateResetsBetweenRuns(t *testing.T) {
	ms := Default()
	big := simulate(t, response.Params{Kp: 10000, Xi: 0.7, H: 0.02, TEnd: 10})
	small := simulate(t, response.Params{Kp: 1.0, Xi: 0.7, H: 0.02, TEnd: 10})

	Evaluate(big, ms...)
	values := Evaluate(small, ms...)

	if values["peak"] > 2 {
		t.Errorf("peak leaked from previous run: %g", values["peak"])
	}
}
