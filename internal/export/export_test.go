package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/stepsim/internal/response"
)

func nominal(t *testing.T) *response.Trace {
	t.Helper()
	tr, err := response.SimulateEffective(1.0, 30, 0.7, 0.02, 10)
	require.NoError(t, err)
	return tr
}

func allSignals() []response.Signal {
	return []response.Signal{
		response.SignalReference,
		response.SignalOutput,
		response.SignalError,
		response.SignalFeedback,
	}
}

func TestCSVRoundTrip(t *testing.T) {
	tr := nominal(t)
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, tr))

	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "t,y,dy,e,f", first)

	got, err := DecodeCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, tr.T, got.T)
	assert.Equal(t, tr.Y, got.Y)
	assert.Equal(t, tr.DY, got.DY)
	assert.Equal(t, tr.E, got.E)
	assert.Equal(t, tr.F, got.F)
}

func TestCSVNonFinite(t *testing.T) {
	tr, err := response.Simulate(response.Params{Kp: 10000, Xi: 0.7, H: 0.02, TEnd: 10})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, WriteCSV(path, tr))
	got, err := ReadCSV(path)
	require.NoError(t, err)
	require.Equal(t, tr.Len(), got.Len())
	last := tr.Len() - 1
	assert.Equal(t, math.IsNaN(tr.Y[last]), math.IsNaN(got.Y[last]))
	assert.Equal(t, math.IsInf(tr.Y[last], 0), math.IsInf(got.Y[last], 0))
}

func TestDecodeCSVRejectsBadInput(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedCSV)

	_, err = DecodeCSV(strings.NewReader("a,b,c,d,e\n1,2,3,4,5\n"))
	assert.ErrorIs(t, err, ErrMalformedCSV)

	_, err = DecodeCSV(strings.NewReader("t,y,dy,e,f\n0,x,0,1,0\n"))
	assert.ErrorIs(t, err, ErrMalformedCSV)
}

func TestJSONEncodesNonFiniteAsNull(t *testing.T) {
	tr := nominal(t)
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, tr, map[string]float64{"rise_time": math.NaN(), "peak": 1.1}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.EqualValues(t, tr.Len(), raw["samples"])
	metrics := raw["metrics"].(map[string]any)
	assert.Nil(t, metrics["rise_time"])
	assert.InDelta(t, 1.1, metrics["peak"], 1e-12)

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.True(t, math.IsNaN(float64(data.Metrics["rise_time"])))
	assert.Equal(t, tr.Params, data.Params)
	assert.Len(t, data.Output, tr.Len())
}

func TestNumberMarshal(t *testing.T) {
	b, err := json.Marshal([]Number{1.5, Number(math.Inf(1)), Number(math.NaN())})
	require.NoError(t, err)
	assert.Equal(t, "[1.5,null,null]", string(b))
}

func TestNewFigureWidensRange(t *testing.T) {
	p, err := NewFigure(nominal(t), FigureOptions{Signals: allSignals(), YMin: -0.6, YMax: 1.8})
	require.NoError(t, err)
	assert.Equal(t, -0.6, p.Y.Min)
	assert.Equal(t, 1.8, p.Y.Max)
	assert.InDelta(t, 10, p.X.Max, 1e-9)

	tr, err := response.Simulate(response.Params{Kp: 4, Xi: 0, H: 0.1, TEnd: 20})
	require.NoError(t, err)
	p, err = NewFigure(tr, FigureOptions{Signals: []response.Signal{response.SignalOutput}, YMin: -0.6, YMax: 1.8})
	require.NoError(t, err)
	assert.Greater(t, p.Y.Max, 1.8)
}

func TestWriteFigure(t *testing.T) {
	dir := t.TempDir()
	tr := nominal(t)
	for _, name := range []string{"step.png", "step.svg"} {
		path := filepath.Join(dir, "out", name)
		require.NoError(t, WriteFigure(path, tr, FigureOptions{Signals: allSignals(), YMin: -0.6, YMax: 1.8, DPI: 72}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteFigureDivergentRun(t *testing.T) {
	tr, err := response.Simulate(response.Params{Kp: 10000, Xi: 0.7, H: 0.02, TEnd: 10})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "diverged.png")
	assert.NoError(t, WriteFigure(path, tr, FigureOptions{Signals: allSignals(), YMin: -0.6, YMax: 1.8, DPI: 72}))
}
