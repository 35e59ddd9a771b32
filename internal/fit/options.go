// Package fit implements the Adam-based per-target maximum-likelihood
// fitter and aggregates per-target results into a full model fit.
package fit

// MinTargetEvents is the minimum number of events a type needs before it's
// eligible to be fit as a target (spec §4.6/§6).
const MinTargetEvents = 10

// Options controls a single fit run. Mirrors the fit-relevant subset of the
// top-level config.Options (spec §6).
type Options struct {
	NumBases         int
	MaxIter          int
	LearningRate     float64
	Lambda1          float64
	Lambda2          float64
	QuadraturePoints int
}

// Adam hyperparameters, fixed per spec §4.6.
const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8

	convergenceTol = 1e-6
)
