package rebalance

import "sort"

// Weights maps a sleeve to its non-negative target weight. Input weights
// need not sum to one; Normalize takes care of that.
type Weights map[string]float64

// Normalize returns the tradable target weights: the illiquid sleeve is
// dropped, negative weights are clipped to zero, and the remainder is
// rescaled to sum to one. A degenerate input (nothing left, or a
// non-positive sum) returns nil, which the planner treats as "no trades".
func (w Weights) Normalize(illiquidSleeve string) Weights {
	var sum float64
	out := make(Weights, len(w))
	for sleeve, weight := range w {
		if sleeve == illiquidSleeve || weight <= 0 {
			continue
		}
		out[sleeve] = weight
		sum += weight
	}
	if sum <= 0 {
		return nil
	}
	for sleeve := range out {
		out[sleeve] /= sum
	}
	return out
}

// Sleeves returns the sleeves carrying weight, sorted.
func (w Weights) Sleeves() []string {
	sleeves := make([]string, 0, len(w))
	for sleeve := range w {
		sleeves = append(sleeves, sleeve)
	}
	sort.Strings(sleeves)
	return sleeves
}
