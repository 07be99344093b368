package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ravik-m/qdyn/internal/solve"
)

// Store persists simulation runs under a base directory, one subdirectory
// per run holding metadata.json and expects.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	System        string             `json:"system"`
	Solver        string             `json:"solver"`
	Method        string             `json:"method"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	NTraj         int                `json:"ntraj,omitempty"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Observables   []string           `json:"observables"`
	Params        map[string]float64 `json:"params,omitempty"`
	Metrics       map[string]float64 `json:"metrics"`
	StepsTaken    int                `json:"steps_taken"`
	StepsRejected int                `json:"steps_rejected"`
}

// RunInfo names a run for Save.
type RunInfo struct {
	System      string
	Solver      string
	Method      string
	Seed        int64
	NTraj       int
	Dt          float64
	Observables []string
	Params      map[string]float64
}

// Save writes the run to disk and returns its generated ID. The ID combines
// the system name with a short random suffix so concurrent runs never
// collide.
func (s *Store) Save(info RunInfo, result *solve.Result) (string, error) {
	if len(info.Observables) != len(result.Expects) {
		return "", fmt.Errorf("store: %d observable names for %d expectation series",
			len(info.Observables), len(result.Expects))
	}

	runID := fmt.Sprintf("%s_%s", info.System, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	duration := 0.0
	if len(result.Times) > 0 {
		duration = result.Times[len(result.Times)-1]
	}
	meta := RunMetadata{
		ID:            runID,
		System:        info.System,
		Solver:        info.Solver,
		Method:        info.Method,
		Timestamp:     time.Now(),
		Seed:          info.Seed,
		NTraj:         info.NTraj,
		Dt:            info.Dt,
		Duration:      duration,
		Observables:   info.Observables,
		Params:        info.Params,
		Metrics:       result.Metrics,
		StepsTaken:    result.StepsTaken,
		StepsRejected: result.StepsRejected,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeExpects(filepath.Join(runDir, "expects.csv"), info.Observables, result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeExpects(path string, names []string, result *solve.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	hasStd := len(result.ExpectsStd) == len(result.Expects) && len(result.ExpectsStd) > 0

	header := []string{"time"}
	for _, name := range names {
		header = append(header, "re_"+name, "im_"+name)
		if hasStd {
			header = append(header, "std_"+name)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{formatFloat(t)}
		for k := range names {
			v := result.Expects[k][i]
			row = append(row, formatFloat(real(v)), formatFloat(imag(v)))
			if hasStd {
				row = append(row, formatFloat(result.ExpectsStd[k][i]))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// List returns metadata for all stored runs, newest first.
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
			continue // skip runs with missing or corrupt metadata
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadExpects reads a run's expectation-value series back. It returns the
// save times and one complex series per observable, in metadata order.
func (s *Store) LoadExpects(runID string) ([]float64, [][]complex128, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "expects.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, make([][]complex128, len(meta.Observables)), nil
	}

	header := records[0]
	reCol := make([]int, len(meta.Observables))
	imCol := make([]int, len(meta.Observables))
	for k, name := range meta.Observables {
		reCol[k], imCol[k] = -1, -1
		for j, col := range header {
			switch col {
			case "re_" + name:
				reCol[k] = j
			case "im_" + name:
				imCol[k] = j
			}
		}
		if reCol[k] < 0 || imCol[k] < 0 {
			return nil, nil, fmt.Errorf("store: observable %s missing from %s", name, runID)
		}
	}

	times := make([]float64, 0, len(records)-1)
	expects := make([][]complex128, len(meta.Observables))
	for i := 1; i < len(records); i++ {
		t, err := strconv.ParseFloat(records[i][0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("store: bad time in %s row %d: %w", runID, i, err)
		}
		times = append(times, t)
		for k := range meta.Observables {
			re, err := strconv.ParseFloat(records[i][reCol[k]], 64)
			if err != nil {
				return nil, nil, err
			}
			im, err := strconv.ParseFloat(records[i][imCol[k]], 64)
			if err != nil {
				return nil, nil, err
			}
			expects[k] = append(expects[k], complex(re, im))
		}
	}
	return times, expects, nil
}

// Delete removes a stored run.
func (s *Store) Delete(runID string) error {
	if runID == "" || runID == "." || runID == ".." {
		return fmt.Errorf("store: invalid run id %q", runID)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}

// Path returns the directory a run is stored in.
func (s *Store) Path(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
