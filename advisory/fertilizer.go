// Package advisory holds the rule-based recommendations served without a
// store: fertilizer doses and the fallback mandi price list.
package advisory

import (
	"math"
	"strings"
)

const LowCostAlternative = "Use compost + neem cake to replace 20% NPK"

// Nutrients are per-hectare doses in kg.
type Nutrients struct {
	N float64 `json:"N"`
	P float64 `json:"P"`
	K float64 `json:"K"`
}

type Recommendation struct {
	Crop               string    `json:"crop"`
	Soil               string    `json:"soil"`
	Nutrients          Nutrients `json:"nutrients"`
	CostEstimate       float64   `json:"costEstimate"`
	LowCostAlternative string    `json:"lowCostAlternative"`
}

// Crop names match exactly; anything else gets defaultNutrients.
var baseNutrients = map[string]Nutrients{
	"Wheat":  {N: 120, P: 60, K: 40},
	"Rice":   {N: 100, P: 50, K: 50},
	"Cotton": {N: 150, P: 60, K: 60},
}

var defaultNutrients = Nutrients{N: 90, P: 40, K: 40}

// Cost per kg of N, P and K.
const (
	costN = 1.5
	costP = 2.0
	costK = 1.8
)

// Recommend returns the dose for crop on soil. Loam and clay take the full
// base dose; lighter soils take 90%.
func Recommend(crop, soil string) Recommendation {
	base, ok := baseNutrients[crop]
	if !ok {
		base = defaultNutrients
	}
	m := soilMultiplier(soil)
	n := Nutrients{
		N: round(base.N*m, 1),
		P: round(base.P*m, 1),
		K: round(base.K*m, 1),
	}
	return Recommendation{
		Crop:               crop,
		Soil:               soil,
		Nutrients:          n,
		CostEstimate:       round(n.N*costN+n.P*costP+n.K*costK, 2),
		LowCostAlternative: LowCostAlternative,
	}
}

func soilMultiplier(soil string) float64 {
	switch strings.ToLower(soil) {
	case "loam", "clay":
		return 1.0
	default:
		return 0.9
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
