package contribution

import (
	"sort"
	"time"
)

type MemberContribution struct {
	PlayerID     string
	Contribution int64
	UpdatedAt    time.Time
}

type Credited struct {
	PlayerID     string
	Contribution int64
	Credited     int64
}

// FinalTeamProgress is the team total capped at target; it drives the team's displayed completion.
func FinalTeamProgress(members []MemberContribution, target int64) int64 {
	var total int64
	for _, member := range members {
		if member.Contribution > 0 {
			total += member.Contribution
		}
	}
	return CapProgress(total, target)
}

// SplitCappedContributions is the display split: largest contributors consume the target first.
func SplitCappedContributions(members []MemberContribution, target int64) []Credited {
	ordered := append([]MemberContribution(nil), members...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Contribution != ordered[j].Contribution {
			return ordered[i].Contribution > ordered[j].Contribution
		}
		return ordered[i].PlayerID < ordered[j].PlayerID
	})
	return consumeBudget(ordered, target)
}

// CalculateTeamEffectiveProgress is the credit split: earliest updates consume the target first.
// Members reached after the target is exhausted get zero effective progress.
func CalculateTeamEffectiveProgress(members []MemberContribution, target int64) []Credited {
	ordered := append([]MemberContribution(nil), members...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].UpdatedAt.Equal(ordered[j].UpdatedAt) {
			return ordered[i].UpdatedAt.Before(ordered[j].UpdatedAt)
		}
		return ordered[i].PlayerID < ordered[j].PlayerID
	})
	return consumeBudget(ordered, target)
}

func consumeBudget(ordered []MemberContribution, target int64) []Credited {
	remaining := max(target, 0)
	out := make([]Credited, 0, len(ordered))
	for _, member := range ordered {
		own := max(member.Contribution, 0)
		credited := min(own, remaining)
		remaining -= credited
		out = append(out, Credited{
			PlayerID:     member.PlayerID,
			Contribution: own,
			Credited:     credited,
		})
	}
	return out
}

func CreditedFor(split []Credited, playerID string) (int64, bool) {
	for _, item := range split {
		if item.PlayerID == playerID {
			return item.Credited, true
		}
	}
	return 0, false
}
