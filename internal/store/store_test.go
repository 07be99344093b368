package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravik-m/qdyn/internal/solve"
)

func testResult() *solve.Result {
	return &solve.Result{
		Times: []float64{0, 0.5, 1},
		Expects: [][]complex128{
			{1, complex(0.6, 0.1), complex(0.36, 0.2)},
			{0, 0.2, 0.4},
		},
		Metrics:    map[string]float64{"trace_drift": 1e-12},
		StepsTaken: 42,
	}
}

func testInfo() RunInfo {
	return RunInfo{
		System:      "cavity",
		Solver:      "me",
		Method:      "dopri5",
		Seed:        7,
		Dt:          0.01,
		Observables: []string{"n", "x"},
		Params:      map[string]float64{"kappa": 1},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	runID, err := s.Save(testInfo(), testResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "cavity_"), "run id should carry the system name")

	meta, err := s.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "cavity", meta.System)
	assert.Equal(t, "me", meta.Solver)
	assert.Equal(t, 1.0, meta.Duration)
	assert.Equal(t, 1e-12, meta.Metrics["trace_drift"])
	assert.Equal(t, []string{"n", "x"}, meta.Observables)

	times, expects, err := s.LoadExpects(runID)
	require.NoError(t, err)
	require.Len(t, times, 3)
	require.Len(t, expects, 2)
	assert.InDelta(t, 0.36, real(expects[0][2]), 1e-9)
	assert.InDelta(t, 0.2, imag(expects[0][2]), 1e-9)
	assert.InDelta(t, 0.4, real(expects[1][2]), 1e-9)
}

func TestSaveUniqueIDs(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	id1, err := s.Save(testInfo(), testResult())
	require.NoError(t, err)
	id2, err := s.Save(testInfo(), testResult())
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestSaveRejectsNameMismatch(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	info := testInfo()
	info.Observables = []string{"n"} // result has two series
	_, err := s.Save(info, testResult())
	assert.Error(t, err)
}

func TestListSortsNewestFirst(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	_, err := s.Save(testInfo(), testResult())
	require.NoError(t, err)
	info2 := testInfo()
	info2.System = "qubit"
	_, err = s.Save(info2, testResult())
	require.NoError(t, err)

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[0].Timestamp.Before(runs[1].Timestamp),
		"runs should be sorted newest first")
}

func TestListEmptyDir(t *testing.T) {
	s := New(t.TempDir() + "/missing")
	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestDelete(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	runID, err := s.Save(testInfo(), testResult())
	require.NoError(t, err)

	require.NoError(t, s.Delete(runID))
	_, err = s.Load(runID)
	assert.Error(t, err, "run should be gone after delete")

	assert.Error(t, s.Delete(".."), "unsafe run ids must be rejected")
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, testInfo(), testResult()))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "cavity", data.System)
	require.Len(t, data.ExpectsRe, 2)
	require.Len(t, data.ExpectsRe[0], 3)
	assert.Equal(t, 0.2, data.ExpectsIm[0][2])
	assert.Equal(t, 42, data.StepsTaken)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, testInfo(), testResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4, "header plus 3 rows")
	assert.Equal(t, "time,re_n,im_n,re_x,im_x", lines[0])
}
