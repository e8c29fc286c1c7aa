package sweep

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/response"
)

// Scenario is a named batch of step response runs
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cases       []Case `yaml:"cases"`
}

// Case is one run of a scenario. Kp is the nominal gain; Percent raises it.
type Case struct {
	Name    string  `yaml:"name"`
	Kp      float64 `yaml:"kp"`
	Percent float64 `yaml:"percent"`
	Xi      float64 `yaml:"xi"`
	H       float64 `yaml:"h"`
	TEnd    float64 `yaml:"t_end"`
}

func (c Case) Params() response.Params {
	return response.Params{
		Kp:   response.EffectiveGain(c.Kp, c.Percent),
		Xi:   c.Xi,
		H:    c.H,
		TEnd: c.TEnd,
	}
}

type CaseResult struct {
	Case     Case
	Trace    *response.Trace
	Metrics  map[string]float64
	Diverged bool
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Cases) == 0 {
		return nil, fmt.Errorf("scenario %q has no cases", scenario.Name)
	}
	for i := range scenario.Cases {
		if scenario.Cases[i].Name == "" {
			scenario.Cases[i].Name = fmt.Sprintf("case-%d", i+1)
		}
	}
	return &scenario, nil
}

// RunScenario executes the cases in order. It stops at the first failing
// case or when ctx is done, returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger *zap.Logger) ([]CaseResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]CaseResult, 0, len(scenario.Cases))

	for i, c := range scenario.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info("running case",
			zap.String("scenario", scenario.Name),
			zap.String("case", c.Name),
			zap.Int("index", i+1),
			zap.Int("total", len(scenario.Cases)),
		)

		tr, err := response.Simulate(c.Params())
		if err != nil {
			return results, fmt.Errorf("case %d (%s): %w", i+1, c.Name, err)
		}

		results = append(results, CaseResult{
			Case:     c,
			Trace:    tr,
			Metrics:  metrics.Evaluate(tr, metrics.Default()...),
			Diverged: metrics.Diverged(tr, metrics.DefaultStabilityBound),
		})
	}
	return results, nil
}
