package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/stepsim/internal/export"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/response"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per saved run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                   `json:"id"`
	Timestamp time.Time                `json:"timestamp"`
	Params    response.Params          `json:"params"`
	Samples   int                      `json:"samples"`
	Diverged  bool                     `json:"diverged"`
	Metrics   map[string]export.Number `json:"metrics"`
}

// Metric returns a stored metric value, NaN when it is missing or was not
// defined for the run.
func (m *RunMetadata) Metric(name string) float64 {
	if v, ok := m.Metrics[name]; ok {
		return float64(v)
	}
	return math.NaN()
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.Unix(), uuid.NewString()[:8])
}

// Save writes the trace and its metrics as a new run and returns its id.
func (s *Store) Save(tr *response.Trace, values map[string]float64) (string, error) {
	now := time.Now()
	runID := newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Params:    tr.Params,
		Samples:   tr.Len(),
		Diverged:  metrics.Diverged(tr, metrics.DefaultStabilityBound),
		Metrics:   export.NumberMap(values),
	}

	if err := writeRun(runDir, tr, meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// writeTrace is replaced in tests to fail the trace write.
var writeTrace = export.WriteCSV

// writeRun writes the trace, then the metadata. A run directory counts as
// saved only once metadata.json exists.
func writeRun(runDir string, tr *response.Trace, meta RunMetadata) error {
	if err := writeTrace(filepath.Join(runDir, traceFile), tr); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the saved runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads a saved trace and attaches the run's parameters.
func (s *Store) LoadTrace(runID string) (*response.Trace, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	tr, err := export.ReadCSV(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	tr.Params = meta.Params
	return tr, nil
}
