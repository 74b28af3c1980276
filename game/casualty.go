package game

import (
	"cmp"
	"math"
	"slices"

	"throne/utils"
)

// Allocate spreads round(fraction × headcount) losses over the stacks of the
// given types in proportion to their headcount. Each stack first loses the
// truncated share; the remaining losses go one each to the stacks with the
// largest fractional share, larger stacks winning ties. No stack loses more
// than it holds.
func Allocate(r Roster, types []UnitType, fraction float64) LossBreakdown {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = utils.Clamp(fraction, 0, 1)

	keys := r.Keys(types...)
	headcount := 0
	for _, key := range keys {
		headcount += r[key]
	}
	target := int(math.Round(fraction * float64(headcount)))
	if target == 0 {
		return LossBreakdown{}
	}

	type share struct {
		key       UnitKey
		quantity  int
		loss      int
		remainder float64
	}
	shares := make([]share, len(keys))
	assigned := 0
	for i, key := range keys {
		exact := fraction * float64(r[key])
		loss := min(int(exact), r[key])
		shares[i] = share{key: key, quantity: r[key], loss: loss, remainder: exact - float64(loss)}
		assigned += loss
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(shares[b].remainder, shares[a].remainder); c != 0 {
			return c
		}
		return cmp.Compare(shares[b].quantity, shares[a].quantity)
	})
	for assigned < target {
		progressed := false
		for _, i := range order {
			if assigned == target {
				break
			}
			if shares[i].loss < shares[i].quantity {
				shares[i].loss++
				assigned++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	var lb LossBreakdown
	for _, s := range shares {
		lb.Add(s.key, s.loss)
	}
	return lb
}
