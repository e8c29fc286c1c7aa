package app

import (
	"errors"

	"go.uber.org/zap"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/response"
)

type Toggles struct {
	Reference bool
	Output    bool
	Error     bool
	Feedback  bool
}

func TogglesFromConfig(t config.TogglesConfig) Toggles {
	return Toggles{
		Reference: t.Reference,
		Output:    t.Output,
		Error:     t.Error,
		Feedback:  t.Feedback,
	}
}

// Signals lists the enabled signals in drawing order.
func (t Toggles) Signals() []response.Signal {
	sigs := make([]response.Signal, 0, 4)
	if t.Reference {
		sigs = append(sigs, response.SignalReference)
	}
	if t.Output {
		sigs = append(sigs, response.SignalOutput)
	}
	if t.Error {
		sigs = append(sigs, response.SignalError)
	}
	if t.Feedback {
		sigs = append(sigs, response.SignalFeedback)
	}
	return sigs
}

// State is everything the presentation layer shows: the form, the signal
// toggles and the last successful run. Trace and Metrics are replaced
// together on every successful simulate command and never edited in place.
type State struct {
	Inputs  Inputs
	Toggles Toggles
	Focus   Field

	Trace   *response.Trace
	Metrics map[string]float64
	Runs    int

	defaults       Inputs
	defaultToggles Toggles
	logger         *zap.Logger
}

func NewState(cfg *config.Config, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	in := InputsFromConfig(cfg.Params)
	toggles := TogglesFromConfig(cfg.Toggles)
	return &State{
		Inputs:         in,
		Toggles:        toggles,
		defaults:       in,
		defaultToggles: toggles,
		logger:         logger,
	}
}

// Update is the single handler for every command. On an input error the
// state is left exactly as it was and the error is returned.
func (s *State) Update(cmd Command) error {
	switch cmd.Kind {
	case CmdSimulate:
		return s.simulate()
	case CmdToggleReference:
		s.Toggles.Reference = !s.Toggles.Reference
	case CmdToggleOutput:
		s.Toggles.Output = !s.Toggles.Output
	case CmdToggleError:
		s.Toggles.Error = !s.Toggles.Error
	case CmdToggleFeedback:
		s.Toggles.Feedback = !s.Toggles.Feedback
	case CmdSetField:
		if cmd.Field < 0 || cmd.Field >= numFields {
			return ErrUnknownField
		}
		s.Inputs[cmd.Field] = cmd.Value
	case CmdFocus:
		if cmd.Field < 0 || cmd.Field >= numFields {
			return ErrUnknownField
		}
		s.Focus = cmd.Field
	case CmdReset:
		s.Inputs = s.defaults
		s.Toggles = s.defaultToggles
	default:
		return ErrUnknownCommand
	}
	return nil
}

func (s *State) simulate() error {
	params, err := ParseInputs(s.Inputs)
	if err != nil {
		s.logger.Debug("input rejected", zap.Error(err))
		return err
	}

	tr, err := response.Simulate(params)
	if err != nil {
		s.logger.Debug("parameters rejected", zap.Error(err))
		return err
	}

	s.Trace = tr
	s.Metrics = metrics.Evaluate(tr, metrics.Default()...)
	s.Runs++

	s.logger.Info("simulated",
		zap.Float64("kp", params.Kp),
		zap.Float64("xi", params.Xi),
		zap.Float64("h", params.H),
		zap.Float64("t_end", params.TEnd),
		zap.Int("samples", tr.Len()),
		zap.Bool("diverged", metrics.Diverged(tr, metrics.DefaultStabilityBound)),
	)
	return nil
}

// IsInputError reports errors caused by the form contents: unparsable text
// or out-of-range values. The presentation layer drops these silently.
func IsInputError(err error) bool {
	var pe *ParameterParseError
	return errors.As(err, &pe) || errors.Is(err, dynamo.ErrParameterBounds)
}
