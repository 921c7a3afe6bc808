package pattern

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

func mustLookup(t *testing.T, key string) Definition {
	t.Helper()
	def, ok := DefaultCatalog().Lookup(key)
	if !ok {
		t.Fatalf("pattern %s missing from catalog", key)
	}
	return def
}

func TestDefaultCatalog_Shapes(t *testing.T) {
	cases := map[string]int{
		"row_1":                 5,
		"column_3":              3,
		"rows_top_bottom":       10,
		"diagonal_descending":   3,
		"both_diagonals":        5,
		"corners":               4,
		"cross":                 7,
		"checkerboard":          8,
		"inversed_checkerboard": 7,
		"outer_border":          12,
		"zigzag":                7,
		"full_board":            15,
	}
	for key, want := range cases {
		if got := mustLookup(t, key).Cells.Len(); got != want {
			t.Fatalf("%s: unexpected cell count got=%d want=%d", key, got, want)
		}
	}

	for _, def := range DefaultCatalog().All() {
		if def.BaseBonus() <= 0 {
			t.Fatalf("%s has no base bonus", def.Key)
		}
		if def.Cells.Empty() {
			t.Fatalf("%s has no cells", def.Key)
		}
	}

	checker := mustLookup(t, "checkerboard").Cells
	inversed := mustLookup(t, "inversed_checkerboard").Cells
	if checker.Union(inversed) != bingo.FullBoard || !checker.Intersect(inversed).Empty() {
		t.Fatalf("checkerboards must partition the board")
	}
}

func TestNewCatalog_RejectsBadDefinitions(t *testing.T) {
	_, err := NewCatalog([]Definition{
		{Key: "a", Family: FamilyLine, Cells: bingo.CellSetOf(0)},
		{Key: "a", Family: FamilyLine, Cells: bingo.CellSetOf(1)},
	})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern for duplicate key, got %v", err)
	}

	_, err = NewCatalog([]Definition{{Key: "b", Family: "spiral"}})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern for unknown family, got %v", err)
	}
}

func TestCalculateStrategicPatternBonus_TwentyPercentCovered(t *testing.T) {
	def := Definition{Key: "border_slice", Family: FamilyOuterBorder, Cells: bingo.CellSetOf(0, 1, 2, 3, 4)}

	got := CalculateStrategicPatternBonus(def, bingo.CellSetOf(2, 7))
	if got.Value != 480 {
		t.Fatalf("unexpected bonus: got=%d want=480", got.Value)
	}
	if got.OverlapRatio != 0.2 {
		t.Fatalf("unexpected overlap ratio: got=%v want=0.2", got.OverlapRatio)
	}
}

func TestCalculateStrategicPatternBonus_Floor(t *testing.T) {
	row := mustLookup(t, "row_2")
	got := CalculateStrategicPatternBonus(row, bingo.FullBoard)
	if got.Value != 4 {
		t.Fatalf("fully covered row must keep the 10%% floor: got=%d want=4", got.Value)
	}

	zigzag := mustLookup(t, "zigzag")
	if got := CalculateStrategicPatternBonus(zigzag, 0); got.Value != 600 {
		t.Fatalf("uncovered pattern must keep full base: got=%d", got.Value)
	}
}

func TestCalculateStrategicPatternBonus_HalfOverlapAtMostHalfBase(t *testing.T) {
	for _, def := range DefaultCatalog().All() {
		cells := def.Cells.Indexes()
		need := (len(cells) + 1) / 2
		for covered := need; covered <= len(cells); covered++ {
			got := CalculateStrategicPatternBonus(def, bingo.CellSetOf(cells[:covered]...))
			if 2*got.Value > def.BaseBonus() {
				t.Fatalf("%s with %d/%d covered: bonus %d exceeds half of %d",
					def.Key, covered, len(cells), got.Value, def.BaseBonus())
			}
			if got.Value <= 0 {
				t.Fatalf("%s: completed pattern must keep a positive bonus", def.Key)
			}
		}
	}
}

func TestTeamAdjusted(t *testing.T) {
	if got := TeamAdjusted(90, 3); got != 30 {
		t.Fatalf("unexpected team share: got=%d want=30", got)
	}
	if got := TeamAdjusted(100, 3); got != 34 {
		t.Fatalf("team share must round up: got=%d want=34", got)
	}
	if got := TeamAdjusted(100, 1); got != 100 {
		t.Fatalf("solo player keeps the bonus: got=%d", got)
	}
	if got := TeamAdjusted(100, 0); got != 100 {
		t.Fatalf("no team keeps the bonus: got=%d", got)
	}
}

func TestCheckSinglePattern_Outcomes(t *testing.T) {
	corners := mustLookup(t, "corners")
	both := mustLookup(t, KeyBothDiagonals)
	xCentered := mustLookup(t, KeyXPatternCentered)

	cases := []struct {
		name      string
		state     State
		completed bingo.CellSet
		def       Definition
		want      Outcome
	}{
		{name: "empty", state: NewState(nil), completed: bingo.FullBoard, def: Definition{Key: "void", Family: FamilyLine}, want: OutcomeEmpty},
		{name: "incomplete", state: NewState(nil), completed: bingo.CellSetOf(0, 4, 10), def: corners, want: OutcomeIncomplete},
		{name: "awarded", state: NewState(nil), completed: bingo.CellSetOf(0, 4, 10, 14), def: corners, want: OutcomeAwarded},
		{
			name:      "already awarded",
			state:     NewState([]bingo.PatternAward{{PatternKey: "corners", Cells: corners.Cells}}),
			completed: bingo.FullBoard,
			def:       corners,
			want:      OutcomeAlreadyAwarded,
		},
		{
			name:      "redundant",
			state:     NewState([]bingo.PatternAward{{PatternKey: KeyBothDiagonals, Cells: both.Cells}}),
			completed: bingo.FullBoard,
			def:       xCentered,
			want:      OutcomeRedundant,
		},
	}

	for _, tc := range cases {
		got := CheckSinglePattern(tc.state, tc.completed, tc.def, 1)
		if got.Outcome != tc.want {
			t.Fatalf("%s: got=%s want=%s", tc.name, got.Outcome, tc.want)
		}
	}
}

func TestEvaluatePatterns_OverlapDecayAcrossScan(t *testing.T) {
	active, err := DefaultCatalog().Resolve([]string{KeyFullBoard, "row_1", "corners"})
	if err != nil {
		t.Fatalf("resolve rotation: %v", err)
	}

	results := EvaluatePatterns(NewState(nil), bingo.FullBoard, active, 1)
	awarded := Awarded(results)
	if len(awarded) != 3 {
		t.Fatalf("expected 3 awards, got %d", len(awarded))
	}
	if awarded[0].AwardedBonus != 1000 {
		t.Fatalf("full board first: got=%d want=1000", awarded[0].AwardedBonus)
	}
	if awarded[1].AwardedBonus != 4 || awarded[2].AwardedBonus != 18 {
		t.Fatalf("rows after full board must decay to the floor: row=%d corners=%d",
			awarded[1].AwardedBonus, awarded[2].AwardedBonus)
	}
}

func TestEvaluatePatterns_TeamShareAndIdempotence(t *testing.T) {
	active, err := DefaultCatalog().Resolve([]string{"diagonal_ascending", KeyBothDiagonals, KeyXPatternAlternating})
	if err != nil {
		t.Fatalf("resolve rotation: %v", err)
	}

	state := NewState(nil)
	completed := bingo.FullBoard
	var committed []Result
	results := Scan(&state, completed, active, 3, func(res Result) bool {
		committed = append(committed, res)
		return true
	})

	if len(committed) != 2 || committed[0].AwardedBonus != 34 {
		t.Fatalf("expected diagonal and both_diagonals only, got %d commits", len(committed))
	}
	// both_diagonals: 220 base, 3 of 5 cells already covered by the diagonal -> 88, split over 3
	if committed[1].Bonus.Value != 88 || committed[1].AwardedBonus != 30 {
		t.Fatalf("unexpected both_diagonals bonus: %+v", committed[1])
	}
	if results[2].Outcome != OutcomeRedundant {
		t.Fatalf("x pattern must be redundant after both_diagonals, got %s", results[2].Outcome)
	}

	again := Scan(&state, completed, active, 3, func(Result) bool {
		t.Fatalf("second scan must not commit anything")
		return false
	})
	for _, res := range again {
		if res.Outcome == OutcomeAwarded {
			t.Fatalf("pattern %s awarded twice", res.Pattern.Key)
		}
	}
}

func TestScan_FailedCommitDoesNotCountAsCovered(t *testing.T) {
	active, err := DefaultCatalog().Resolve([]string{KeyFullBoard, "row_1"})
	if err != nil {
		t.Fatalf("resolve rotation: %v", err)
	}

	state := NewState(nil)
	results := Scan(&state, bingo.FullBoard, active, 1, func(res Result) bool {
		return res.Pattern.Key != KeyFullBoard
	})
	if results[1].AwardedBonus != 40 {
		t.Fatalf("row must not decay against an unpersisted award: got=%d", results[1].AwardedBonus)
	}
	if state.Has(KeyFullBoard) || !state.Has("row_1") {
		t.Fatalf("state must only hold committed awards")
	}
}

func TestSelectRotation_Invariants(t *testing.T) {
	catalog := DefaultCatalog()
	previous := []string{}
	for seed := uint64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31+7))
		keys, err := SelectRotation(catalog, previous, rng)
		if err != nil {
			t.Fatalf("seed %d: select rotation: %v", seed, err)
		}
		if len(keys) != MaxRotationSize {
			t.Fatalf("seed %d: expected %d entries, got %d", seed, MaxRotationSize, len(keys))
		}
		if keys[0] != KeyFullBoard {
			t.Fatalf("seed %d: full_board must lead, got %s", seed, keys[0])
		}
		if err := ValidateRotation(catalog, keys); err != nil {
			t.Fatalf("seed %d: invalid rotation %v: %v", seed, keys, err)
		}

		// everything except full_board must be fresh when enough fresh patterns exist
		prev := make(map[string]struct{}, len(previous))
		for _, key := range previous {
			prev[key] = struct{}{}
		}
		for _, key := range keys[1:] {
			if _, reused := prev[key]; reused {
				t.Fatalf("seed %d: reused %s while fresh patterns were available", seed, key)
			}
		}
		previous = keys
	}
}

func TestSelectRotation_FallsBackToPrevious(t *testing.T) {
	catalog, err := NewCatalog([]Definition{
		{Key: KeyFullBoard, Family: FamilyFullBoard, Cells: bingo.FullBoard},
		{Key: "row_1", Family: FamilyLine, Cells: bingo.CellSetOf(0, 1, 2, 3, 4)},
		{Key: "row_2", Family: FamilyLine, Cells: bingo.CellSetOf(5, 6, 7, 8, 9)},
		{Key: "corners", Family: FamilyCorners, Cells: bingo.CellSetOf(0, 4, 10, 14)},
		{Key: "cross", Family: FamilyCross, Cells: bingo.CellSetOf(2, 5, 6, 7, 8, 9, 12)},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	keys, err := SelectRotation(catalog, []string{KeyFullBoard, "corners", "cross"}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("select rotation: %v", err)
	}
	if len(keys) != 4 {
		t.Fatalf("expected full_board, one line and two reused patterns, got %v", keys)
	}
	if keys[1] != "row_1" && keys[1] != "row_2" {
		t.Fatalf("fresh line must come before reused patterns, got %v", keys)
	}
	if err := ValidateRotation(catalog, keys); err != nil {
		t.Fatalf("invalid rotation %v: %v", keys, err)
	}
}

func TestValidateRotation_Rejects(t *testing.T) {
	catalog := DefaultCatalog()
	cases := map[string][]string{
		"empty":          {},
		"no full board":  {"row_1", "corners"},
		"two lines":      {KeyFullBoard, "row_1", "column_2"},
		"two multi":      {KeyFullBoard, "rows_top_bottom", "columns_outer"},
		"redundant pair": {KeyFullBoard, KeyBothDiagonals, KeyXPatternCentered},
		"duplicate":      {KeyFullBoard, "corners", "corners"},
		"too many":       {KeyFullBoard, "row_1", "corners", "cross", "zigzag", "checkerboard", "outer_border"},
		"unknown":        {KeyFullBoard, "spiral"},
	}
	for name, keys := range cases {
		if err := ValidateRotation(catalog, keys); !errors.Is(err, ErrInvalidRotation) {
			t.Fatalf("%s: expected ErrInvalidRotation, got %v", name, err)
		}
	}
}
