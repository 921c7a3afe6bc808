package pattern

import "github.com/riskibarqy/clan-bingo/internal/domain/bingo"

// Bonus is the decayed value of a completed pattern.
type Bonus struct {
	Base         int
	OverlapRatio float64
	Value        int
}

// CalculateStrategicPatternBonus decays the family base by the share of cells already
// covered by earlier awards: ceil(base * max(0.1, 1 - overlap)).
func CalculateStrategicPatternBonus(def Definition, covered bingo.CellSet) Bonus {
	base := def.BaseBonus()
	n := def.Cells.Len()
	if n == 0 || base <= 0 {
		return Bonus{Base: max(base, 0)}
	}

	overlap := def.Cells.Intersect(covered).Len()
	remaining := n - overlap

	var value int
	if remaining*10 < n {
		value = (base + 9) / 10
	} else {
		value = (base*remaining + n - 1) / n
	}

	return Bonus{
		Base:         base,
		OverlapRatio: float64(overlap) / float64(n),
		Value:        value,
	}
}

// TeamAdjusted spreads a bonus evenly over the team, rounding up.
func TeamAdjusted(bonus, teamSize int) int {
	if teamSize <= 1 || bonus <= 0 {
		return bonus
	}
	return (bonus + teamSize - 1) / teamSize
}
