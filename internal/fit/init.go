package fit

import (
	"math"

	"github.com/lifetracker/eventmodel/internal/model"
)

// InitParamsFromData seeds each type's baseline intercept (Beta[k][0]) to
// ln((count_k+0.5) / max(1, totalHours)), leaving every other Beta and Theta
// entry at zero. This gives each type's baseline rate a sane starting point
// before Adam takes over, instead of starting every type flat at rate 1/h.
func InitParamsFromData(params *model.Params, counts []int, totalHours float64) {
	hours := math.Max(1, totalHours)
	for k, c := range counts {
		params.Beta[k][0] = math.Log((float64(c) + 0.5) / hours)
	}
}
