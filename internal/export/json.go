package export

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/stepsim/internal/response"
)

// Number is a float that encodes NaN and ±Inf as null. Diverged runs and
// undefined metrics produce such values and plain encoding/json rejects them.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func Numbers(vs []float64) []Number {
	out := make([]Number, len(vs))
	for i, v := range vs {
		out[i] = Number(v)
	}
	return out
}

func NumberMap(m map[string]float64) map[string]Number {
	out := make(map[string]Number, len(m))
	for k, v := range m {
		out[k] = Number(v)
	}
	return out
}

type ExportData struct {
	Params   response.Params   `json:"params"`
	Samples  int               `json:"samples"`
	Times    []Number          `json:"t"`
	Output   []Number          `json:"y"`
	Rate     []Number          `json:"dy"`
	Error    []Number          `json:"e"`
	Feedback []Number          `json:"f"`
	Metrics  map[string]Number `json:"metrics,omitempty"`
}

func NewExportData(tr *response.Trace, metrics map[string]float64) ExportData {
	return ExportData{
		Params:   tr.Params,
		Samples:  tr.Len(),
		Times:    Numbers(tr.T),
		Output:   Numbers(tr.Y),
		Rate:     Numbers(tr.DY),
		Error:    Numbers(tr.E),
		Feedback: Numbers(tr.F),
		Metrics:  NumberMap(metrics),
	}
}

func EncodeJSON(w io.Writer, tr *response.Trace, metrics map[string]float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(tr, metrics))
}

func WriteJSON(path string, tr *response.Trace, metrics map[string]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, tr, metrics)
}
