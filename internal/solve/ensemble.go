package solve

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ravik-m/qdyn/internal/quantum"
)

// averageTrajectories folds per-trajectory states and expectation values
// into a single ensemble result: the mean density matrix per save time, the
// mean expectation values, and the trajectory standard deviation of their
// real parts.
func averageTrajectories(
	tsave []float64,
	trajStates [][]*quantum.Matrix,
	trajExpects [][][]complex128,
	opts Options,
) *Result {
	nTraj := len(trajStates)
	nSave := len(tsave)
	nExp := 0
	if len(trajExpects[0]) > 0 {
		nExp = len(trajExpects[0][0])
	}

	result := newResult(tsave, nExp, opts.SaveStates)
	invN := complex(1/float64(nTraj), 0)

	for ti := 0; ti < nSave; ti++ {
		mean := trajStates[0][ti].Scale(invN)
		for traj := 1; traj < nTraj; traj++ {
			mean = mean.Add(trajStates[traj][ti].Scale(invN))
		}
		if opts.SaveStates {
			result.States = append(result.States, mean)
		}
		if ti == nSave-1 {
			result.FinalState = mean
		}
	}

	if nExp > 0 {
		result.ExpectsStd = make([][]float64, nExp)
		samples := make([]float64, nTraj)
		for op := 0; op < nExp; op++ {
			result.Expects[op] = make([]complex128, nSave)
			result.ExpectsStd[op] = make([]float64, nSave)
			for ti := 0; ti < nSave; ti++ {
				var sum complex128
				for traj := 0; traj < nTraj; traj++ {
					v := trajExpects[traj][ti][op]
					sum += v
					samples[traj] = real(v)
				}
				result.Expects[op][ti] = sum * invN
				if nTraj > 1 {
					result.ExpectsStd[op][ti] = stat.StdDev(samples, nil)
				}
			}
		}
	}

	return result
}
