package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/stepsim/internal/response"
)

func TestPowerSpectrumPads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins for 128-point padding, got %d", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestPowerSpectrumSine(t *testing.T) {
	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	peak := 0
	for i := range ps {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Errorf("expected peak at bin 8, got %d", peak)
	}
}

func TestDominantFrequencyNominal(t *testing.T) {
	// Kp=25, xi=0.05: lightly damped, wn = 5 rad/s ≈ 0.8 Hz
	tr, err := response.Simulate(response.Params{Kp: 25, Xi: 0.05, H: 0.005, TEnd: 20})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	f := DominantFrequency(tr)
	expected := 5 / (2 * math.Pi)
	if math.Abs(f-expected) > 0.1 {
		t.Errorf("expected ~%.3f Hz, got %.3f Hz", expected, f)
	}
}

func TestDominantFrequencyShortTrace(t *testing.T) {
	tr, err := response.Simulate(response.Params{Kp: 1, Xi: 0.7, H: 0.5, TEnd: 1})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if f := DominantFrequency(tr); f != 0 {
		t.Errorf("expected 0 for a 3-sample trace, got %f", f)
	}
}

func TestPhasePortrait(t *testing.T) {
	tr, err := response.Simulate(response.Params{Kp: 1, Xi: 0.3, H: 0.02, TEnd: 10})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	portrait := NewPhasePortrait(tr)
	if len(portrait.Points) != tr.Len() {
		t.Fatalf("expected %d points, got %d", tr.Len(), len(portrait.Points))
	}
	if portrait.Points[0] != (Point{0, 0}) {
		t.Errorf("expected portrait to start at the origin, got %v", portrait.Points[0])
	}

	ascii := portrait.ToASCII(40, 12)
	lines := strings.Split(strings.TrimRight(ascii, "\n"), "\n")
	if len(lines) != 12 {
		t.Errorf("expected 12 rows, got %d", len(lines))
	}
	if !strings.ContainsRune(ascii, '●') {
		t.Error("expected late samples to be drawn")
	}
}

func TestPhasePortraitEmpty(t *testing.T) {
	var p *PhasePortrait
	if p.ToASCII(10, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}
