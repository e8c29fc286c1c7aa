package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/response"
)

type Field int

const (
	FieldKp Field = iota
	FieldPercent
	FieldXi
	FieldH
	FieldTEnd
	numFields
)

var fieldLabels = [numFields]string{
	FieldKp:      "Kp (nominal)",
	FieldPercent: "Kp increase %",
	FieldXi:      "ξ (damping)",
	FieldH:       "step h",
	FieldTEnd:    "horizon t_end",
}

var fieldKeys = [numFields]string{
	FieldKp:      "kp",
	FieldPercent: "percent",
	FieldXi:      "xi",
	FieldH:       "h",
	FieldTEnd:    "t_end",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldKeys[f]
}

func (f Field) Label() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldLabels[f]
}

// Fields lists the form fields in display order.
func Fields() []Field {
	fs := make([]Field, numFields)
	for i := range fs {
		fs[i] = Field(i)
	}
	return fs
}

// Inputs is the raw text of the parameter form.
type Inputs [numFields]string

func InputsFromConfig(p config.ParamsConfig) Inputs {
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return Inputs{
		FieldKp:      format(p.Kp),
		FieldPercent: format(p.Percent),
		FieldXi:      format(p.Xi),
		FieldH:       format(p.H),
		FieldTEnd:    format(p.TEnd),
	}
}

// ParameterParseError reports a form field whose text is not a real number.
type ParameterParseError struct {
	Field Field
	Text  string
	Err   error
}

func (e *ParameterParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Text, e.Err)
}

func (e *ParameterParseError) Unwrap() error {
	return e.Err
}

// ParseInputs converts the form into simulation parameters, applying the
// gain increase. The first field that fails to parse is reported.
func ParseInputs(in Inputs) (response.Params, error) {
	var values [numFields]float64
	for _, f := range Fields() {
		text := strings.TrimSpace(in[f])
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return response.Params{}, &ParameterParseError{Field: f, Text: in[f], Err: err}
		}
		values[f] = v
	}

	return response.Params{
		Kp:   response.EffectiveGain(values[FieldKp], values[FieldPercent]),
		Xi:   values[FieldXi],
		H:    values[FieldH],
		TEnd: values[FieldTEnd],
	}, nil
}
