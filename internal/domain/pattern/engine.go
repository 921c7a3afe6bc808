package pattern

import "github.com/riskibarqy/clan-bingo/internal/domain/bingo"

type Outcome string

const (
	OutcomeAwarded        Outcome = "awarded"
	OutcomeEmpty          Outcome = "empty"
	OutcomeAlreadyAwarded Outcome = "already_awarded"
	OutcomeRedundant      Outcome = "redundant"
	OutcomeIncomplete     Outcome = "incomplete"
)

// State is what one player already holds on one board within one event.
type State struct {
	awarded map[string]struct{}
	covered bingo.CellSet
}

func NewState(awards []bingo.PatternAward) State {
	s := State{awarded: make(map[string]struct{}, len(awards))}
	for _, award := range awards {
		s.awarded[award.PatternKey] = struct{}{}
		s.covered = s.covered.Union(award.Cells)
	}
	return s
}

func (s State) Has(key string) bool {
	_, ok := s.awarded[key]
	return ok
}

func (s State) Covered() bingo.CellSet { return s.covered }

func (s State) holdsRedundant() bool {
	for key := range redundantXGroup {
		if s.Has(key) {
			return true
		}
	}
	return false
}

func (s *State) Record(def Definition) {
	if s.awarded == nil {
		s.awarded = make(map[string]struct{})
	}
	s.awarded[def.Key] = struct{}{}
	s.covered = s.covered.Union(def.Cells)
}

func (s State) clone() State {
	out := State{awarded: make(map[string]struct{}, len(s.awarded)), covered: s.covered}
	for key := range s.awarded {
		out.awarded[key] = struct{}{}
	}
	return out
}

type Result struct {
	Pattern      Definition
	Outcome      Outcome
	Bonus        Bonus
	AwardedBonus int
}

// CheckSinglePattern decides whether def can be awarded given the player's completed cells.
func CheckSinglePattern(state State, completed bingo.CellSet, def Definition, teamSize int) Result {
	res := Result{Pattern: def}
	switch {
	case def.Cells.Empty():
		res.Outcome = OutcomeEmpty
	case state.Has(def.Key):
		res.Outcome = OutcomeAlreadyAwarded
	case InRedundantGroup(def.Key) && state.holdsRedundant():
		res.Outcome = OutcomeRedundant
	case !completed.ContainsAll(def.Cells):
		res.Outcome = OutcomeIncomplete
	default:
		res.Outcome = OutcomeAwarded
		res.Bonus = CalculateStrategicPatternBonus(def, state.covered)
		res.AwardedBonus = TeamAdjusted(res.Bonus.Value, teamSize)
	}
	return res
}

// Scan walks active in order. commit persists an awarded result and reports whether it
// now belongs to the player; only committed awards feed the overlap of later patterns.
func Scan(state *State, completed bingo.CellSet, active []Definition, teamSize int, commit func(Result) bool) []Result {
	out := make([]Result, 0, len(active))
	for _, def := range active {
		res := CheckSinglePattern(*state, completed, def, teamSize)
		if res.Outcome == OutcomeAwarded && commit(res) {
			state.Record(def)
		}
		out = append(out, res)
	}
	return out
}

// EvaluatePatterns is Scan without side effects: every awardable pattern is assumed to stick.
func EvaluatePatterns(state State, completed bingo.CellSet, active []Definition, teamSize int) []Result {
	working := state.clone()
	return Scan(&working, completed, active, teamSize, func(Result) bool { return true })
}

func Awarded(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, res := range results {
		if res.Outcome == OutcomeAwarded {
			out = append(out, res)
		}
	}
	return out
}
