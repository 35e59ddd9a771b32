// Package model implements the point-process GLM: its parameters, the
// regularized log-likelihood and gradient for a single target type, and the
// time-ordered event/quadrature merge the likelihood is evaluated over.
package model

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lifetracker/eventmodel/internal/features"
)

// ClampAbs is the parameter clamp magnitude applied after every optimizer
// update (spec: all params clamped to +/-50).
const ClampAbs = 50

// EtaClampAbs bounds the linear predictor before exponentiating, preventing
// intensity overflow (spec: clamp(eta, -20, +20)).
const EtaClampAbs = 20

// Params holds the full model's baseline and influence coefficients.
// Beta[k] is the length-features.NumFeatures baseline vector for target k.
// Theta[k][s] is the length-NumBases influence vector from source s onto
// target k; Theta[k][k] is always zero and never read.
type Params struct {
	NumTypes int
	NumBases int
	Beta     [][]float64
	Theta    [][][]float64
}

// NewParams allocates a zeroed parameter set for numTypes types and numBases
// basis components.
func NewParams(numTypes, numBases int) *Params {
	p := &Params{NumTypes: numTypes, NumBases: numBases}
	p.Beta = make([][]float64, numTypes)
	p.Theta = make([][][]float64, numTypes)
	for k := 0; k < numTypes; k++ {
		p.Beta[k] = make([]float64, features.NumFeatures)
		p.Theta[k] = make([][]float64, numTypes)
		for s := 0; s < numTypes; s++ {
			p.Theta[k][s] = make([]float64, numBases)
		}
	}
	return p
}

// Clone deep-copies the parameter set, for reproducible snapshots before
// fitting mutates it in place.
func (p *Params) Clone() *Params {
	q := NewParams(p.NumTypes, p.NumBases)
	for k := 0; k < p.NumTypes; k++ {
		copy(q.Beta[k], p.Beta[k])
		for s := 0; s < p.NumTypes; s++ {
			copy(q.Theta[k][s], p.Theta[k][s])
		}
	}
	return q
}

// Eta evaluates the linear predictor for target k at the given baseline
// feature vector and current recursive state (one row per source type).
func (p *Params) Eta(k int, feat [features.NumFeatures]float64, stateVectors [][]float64) float64 {
	eta := floats.Dot(p.Beta[k], feat[:])
	theta := p.Theta[k]
	for s, vec := range stateVectors {
		if s == k {
			continue
		}
		eta += floats.Dot(theta[s], vec)
	}
	return eta
}

// Intensity converts a linear predictor into a rate, clamping eta to
// [-EtaClampAbs, EtaClampAbs] first to avoid overflow.
func Intensity(eta float64) float64 {
	return math.Exp(Clamp(eta, -EtaClampAbs, EtaClampAbs))
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Sanitize clamps every coefficient to [-ClampAbs, ClampAbs] and resets any
// non-finite value to 0, in place, by applying SanitizeTarget to every target.
func (p *Params) Sanitize() {
	for k := 0; k < p.NumTypes; k++ {
		p.SanitizeTarget(k)
	}
}

// SanitizeTarget clamps and resets only target k's own rows (Beta[k] and
// Theta[k][*]), leaving every other target's parameters untouched. Applied
// after every optimizer update while fitting target k, so unrelated targets'
// rows aren't revisited.
func (p *Params) SanitizeTarget(k int) {
	sanitizeRow(p.Beta[k])
	for s := 0; s < p.NumTypes; s++ {
		sanitizeRow(p.Theta[k][s])
	}
}

func sanitizeRow(row []float64) {
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			row[i] = 0
			continue
		}
		row[i] = Clamp(v, -ClampAbs, ClampAbs)
	}
}
