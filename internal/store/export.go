package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/ravik-m/qdyn/internal/solve"
)

type ExportData struct {
	System        string             `json:"system"`
	Solver        string             `json:"solver"`
	Method        string             `json:"method"`
	Dt            float64            `json:"dt"`
	Seed          int64              `json:"seed"`
	NTraj         int                `json:"ntraj,omitempty"`
	Times         []float64          `json:"times"`
	Observables   []string           `json:"observables"`
	ExpectsRe     [][]float64        `json:"expects_re"`
	ExpectsIm     [][]float64        `json:"expects_im"`
	ExpectsStd    [][]float64        `json:"expects_std,omitempty"`
	Metrics       map[string]float64 `json:"metrics"`
	StepsTaken    int                `json:"steps_taken"`
	StepsRejected int                `json:"steps_rejected"`
}

func buildExport(info RunInfo, result *solve.Result) ExportData {
	data := ExportData{
		System:        info.System,
		Solver:        info.Solver,
		Method:        info.Method,
		Dt:            info.Dt,
		Seed:          info.Seed,
		NTraj:         info.NTraj,
		Times:         result.Times,
		Observables:   info.Observables,
		ExpectsRe:     make([][]float64, len(result.Expects)),
		ExpectsIm:     make([][]float64, len(result.Expects)),
		Metrics:       result.Metrics,
		StepsTaken:    result.StepsTaken,
		StepsRejected: result.StepsRejected,
	}
	for k, series := range result.Expects {
		data.ExpectsRe[k] = make([]float64, len(series))
		data.ExpectsIm[k] = make([]float64, len(series))
		for i, v := range series {
			data.ExpectsRe[k][i] = real(v)
			data.ExpectsIm[k][i] = imag(v)
		}
	}
	if len(result.ExpectsStd) > 0 {
		data.ExpectsStd = result.ExpectsStd
	}
	return data
}

// ExportJSON writes the run as an indented JSON document.
func ExportJSON(w io.Writer, info RunInfo, result *solve.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExport(info, result))
}

// ExportJSONFile writes the run as JSON to the given path.
func ExportJSONFile(path string, info RunInfo, result *solve.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, info, result)
}

// ExportCSV writes the expectation-value series in the same column layout
// that Save uses for expects.csv.
func ExportCSV(w io.Writer, info RunInfo, result *solve.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time"}
	for _, name := range info.Observables {
		header = append(header, "re_"+name, "im_"+name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'g', 12, 64)}
		for k := range info.Observables {
			v := result.Expects[k][i]
			row = append(row,
				strconv.FormatFloat(real(v), 'g', 12, 64),
				strconv.FormatFloat(imag(v), 'g', 12, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSVFile writes the expectation series as CSV to the given path.
func ExportCSVFile(path string, info RunInfo, result *solve.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportCSV(file, info, result)
}
