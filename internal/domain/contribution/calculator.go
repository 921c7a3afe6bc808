package contribution

import (
	"math"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

// EventProgress is the event-scoped delta of a cumulative stat. A missing baseline is passed as 0.
func EventProgress(current, baseline int64) int64 {
	if current <= baseline {
		return 0
	}
	return current - baseline
}

func CapProgress(progress, target int64) int64 {
	if progress <= 0 || target <= 0 {
		return 0
	}
	return min(progress, target)
}

func StatusFor(progress, target int64) bingo.ProgressStatus {
	capped := CapProgress(progress, target)
	switch {
	case capped <= 0:
		return bingo.StatusIncomplete
	case capped < target:
		return bingo.StatusInProgress
	default:
		return bingo.StatusCompleted
	}
}

// ComputePartialPoints scales basePoints by how much of target was reached.
// With roundPerTask false the fractional value is returned so callers can round once after summing.
func ComputePartialPoints(progress, target int64, basePoints int, roundPerTask bool) float64 {
	if target <= 0 || basePoints <= 0 {
		return 0
	}
	effective := CapProgress(progress, target)
	raw := float64(effective) / float64(target) * float64(basePoints)
	if roundPerTask {
		return math.Round(raw)
	}
	return raw
}

func ComputeOverallPercentage(totalPartial, totalBoardPoints float64) float64 {
	if totalBoardPoints <= 0 {
		return 0
	}
	return totalPartial / totalBoardPoints * 100
}

// Percent returns part/whole*100, or 0 for a non-positive whole.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
