package response

// Reference is the unit step applied at t = 0.
const Reference = 1.0

type Signal int

const (
	SignalReference Signal = iota
	SignalOutput
	SignalRate
	SignalError
	SignalFeedback
)

var signalNames = map[Signal]string{
	SignalReference: "x",
	SignalOutput:    "y",
	SignalRate:      "dy",
	SignalError:     "e",
	SignalFeedback:  "f",
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "unknown"
}

// Trace holds the five equal-length sequences of one run.
type Trace struct {
	Params Params
	T      []float64
	Y      []float64
	DY     []float64
	E      []float64
	F      []float64
}

func newTrace(p Params, n int) *Trace {
	return &Trace{
		Params: p,
		T:      make([]float64, n),
		Y:      make([]float64, n),
		DY:     make([]float64, n),
		E:      make([]float64, n),
		F:      make([]float64, n),
	}
}

func (tr *Trace) Len() int {
	return len(tr.T)
}

// Series returns the samples of one signal. The reference series is built
// on demand; the others alias the trace and must not be modified.
func (tr *Trace) Series(s Signal) []float64 {
	switch s {
	case SignalReference:
		ref := make([]float64, tr.Len())
		for i := range ref {
			ref[i] = Reference
		}
		return ref
	case SignalOutput:
		return tr.Y
	case SignalRate:
		return tr.DY
	case SignalError:
		return tr.E
	case SignalFeedback:
		return tr.F
	}
	return nil
}
