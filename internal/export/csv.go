package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/stepsim/internal/response"
)

// CSVHeader is the column order of exported traces.
var CSVHeader = []string{"t", "y", "dy", "e", "f"}

var ErrMalformedCSV = errors.New("export: malformed trace csv")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EncodeCSV writes one row per sample. Floats use the shortest exact
// representation, so a trace survives a round trip unchanged.
func EncodeCSV(w io.Writer, tr *response.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	row := make([]string, len(CSVHeader))
	for i := 0; i < tr.Len(); i++ {
		row[0] = formatFloat(tr.T[i])
		row[1] = formatFloat(tr.Y[i])
		row[2] = formatFloat(tr.DY[i])
		row[3] = formatFloat(tr.E[i])
		row[4] = formatFloat(tr.F[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCSV(path string, tr *response.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := EncodeCSV(f, tr); err != nil {
		return err
	}
	return f.Close()
}

// DecodeCSV reads the columns written by EncodeCSV. The returned trace
// carries no parameters; callers attach them from run metadata.
func DecodeCSV(r io.Reader) (*response.Trace, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}
	for i, name := range CSVHeader {
		if len(records[0]) != len(CSVHeader) || records[0][i] != name {
			return nil, fmt.Errorf("%w: header %v", ErrMalformedCSV, records[0])
		}
	}

	n := len(records) - 1
	tr := &response.Trace{
		T:  make([]float64, n),
		Y:  make([]float64, n),
		DY: make([]float64, n),
		E:  make([]float64, n),
		F:  make([]float64, n),
	}
	cols := [][]float64{tr.T, tr.Y, tr.DY, tr.E, tr.F}
	for i, rec := range records[1:] {
		for j, col := range cols {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedCSV, i+1, err)
			}
			col[i] = v
		}
	}
	return tr, nil
}

func ReadCSV(path string) (*response.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCSV(f)
}
