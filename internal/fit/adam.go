package fit

import (
	"math"

	"github.com/lifetracker/eventmodel/internal/eventlog"
	"github.com/lifetracker/eventmodel/internal/features"
	"github.com/lifetracker/eventmodel/internal/model"
	"github.com/lifetracker/eventmodel/internal/trace"
	"github.com/lifetracker/eventmodel/internal/window"
)

// Result is the outcome of fitting a single target type: the shared params
// object it fitted into, the final regularized log-likelihood, whether the
// fit converged before MaxIter, and how many iterations it actually ran.
type Result struct {
	Params      *model.Params
	FinalLogLik float64
	Converged   bool
	Iterations  int
}

// adamMoments holds the first/second moment accumulators for one target's
// own parameter rows (Beta[k] plus Theta[k][s] for every s != k).
type adamMoments struct {
	mBeta, vBeta []float64
	mTheta       [][]float64
	vTheta       [][]float64
}

func newAdamMoments(numTypes, numBases int) *adamMoments {
	m := &adamMoments{
		mBeta: make([]float64, features.NumFeatures),
		vBeta: make([]float64, features.NumFeatures),
	}
	m.mTheta = make([][]float64, numTypes)
	m.vTheta = make([][]float64, numTypes)
	for s := 0; s < numTypes; s++ {
		m.mTheta[s] = make([]float64, numBases)
		m.vTheta[s] = make([]float64, numBases)
	}
	return m
}

// step applies one Adam ascent update to param, given gradient g and the
// bias-corrected step count t (1-indexed).
func step(param, m, v *float64, g, lr float64, t int) {
	*m = adamBeta1*(*m) + (1-adamBeta1)*g
	*v = adamBeta2*(*v) + (1-adamBeta2)*g*g
	mHat := *m / (1 - math.Pow(adamBeta1, float64(t)))
	vHat := *v / (1 - math.Pow(adamBeta2, float64(t)))
	*param += lr * mHat / (math.Sqrt(vHat) + adamEps)
}

// FitTarget runs Adam to maximize the regularized log-likelihood for target
// type k, mutating params.Beta[k] and params.Theta[k][s] (s != k) in place.
// Every other target's rows are left untouched.
func FitTarget(k int, stream *eventlog.Stream, windows []window.Window, params *model.Params, opts Options) *Result {
	return FitTargetTraced(k, stream, windows, params, opts, nil)
}

// FitTargetTraced behaves like FitTarget, additionally recording each
// iteration's log-likelihood into ft for CLI --verbose output. ft may be
// nil, in which case no trace is recorded.
func FitTargetTraced(k int, stream *eventlog.Stream, windows []window.Window, params *model.Params, opts Options, ft *trace.FitTrace) *Result {
	numTypes := params.NumTypes
	moments := newAdamMoments(numTypes, params.NumBases)
	targetName := stream.TypeNames[k]

	var finalLL float64
	var prevLL float64
	converged := false
	iterations := 0

	for i := 0; i < opts.MaxIter; i++ {
		ll, grad := model.EvalTarget(k, stream, windows, params, opts.Lambda1, opts.Lambda2, opts.QuadraturePoints)
		finalLL = ll
		iterations = i + 1
		t := i + 1

		for j := range params.Beta[k] {
			step(&params.Beta[k][j], &moments.mBeta[j], &moments.vBeta[j], grad.Beta[j], opts.LearningRate, t)
		}
		for s := 0; s < numTypes; s++ {
			if s == k {
				continue
			}
			row := params.Theta[k][s]
			gradRow := grad.Theta[s]
			for b := range row {
				step(&row[b], &moments.mTheta[s][b], &moments.vTheta[s][b], gradRow[b], opts.LearningRate, t)
			}
		}

		params.SanitizeTarget(k)

		converged = i > 0 && math.Abs(ll-prevLL) < convergenceTol
		ft.Record(targetName, iterations, ll, converged)
		if converged {
			break
		}
		prevLL = ll
	}

	return &Result{
		Params:      params,
		FinalLogLik: finalLL,
		Converged:   converged,
		Iterations:  iterations,
	}
}
