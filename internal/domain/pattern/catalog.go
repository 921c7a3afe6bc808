package pattern

import (
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

var (
	ErrUnknownPattern = crerr.New("unknown pattern")
	ErrInvalidPattern = crerr.New("invalid pattern")
)

type Family string

const (
	FamilyLine                 Family = "line"
	FamilyMultipleLines        Family = "multiple_lines"
	FamilyDiagonal             Family = "diagonal"
	FamilyBothDiagonals        Family = "both_diagonals"
	FamilyCorners              Family = "corners"
	FamilyCross                Family = "cross"
	FamilyXPattern             Family = "x_pattern"
	FamilyDiagonalCrosshatch   Family = "diagonal_crosshatch"
	FamilyCheckerboard         Family = "checkerboard"
	FamilyInversedCheckerboard Family = "inversed_checkerboard"
	FamilyCheckerboardVarietyz Family = "checkerboard_varietyz"
	FamilyOuterBorder          Family = "outer_border"
	FamilyZigzag               Family = "zigzag"
	FamilyFullBoard            Family = "full_board"
)

var familyBaseBonus = map[Family]int{
	FamilyLine:                 40,
	FamilyMultipleLines:        120,
	FamilyDiagonal:             100,
	FamilyBothDiagonals:        220,
	FamilyCorners:              180,
	FamilyCross:                260,
	FamilyXPattern:             180,
	FamilyDiagonalCrosshatch:   240,
	FamilyCheckerboard:         450,
	FamilyInversedCheckerboard: 450,
	FamilyCheckerboardVarietyz: 600,
	FamilyOuterBorder:          600,
	FamilyZigzag:               600,
	FamilyFullBoard:            1000,
}

func (f Family) BaseBonus() int {
	return familyBaseBonus[f]
}

func (f Family) Valid() bool {
	_, ok := familyBaseBonus[f]
	return ok
}

const (
	KeyFullBoard           = "full_board"
	KeyBothDiagonals       = "both_diagonals"
	KeyXPatternCentered    = "x_pattern_centered"
	KeyXPatternAlternating = "x_pattern_alternating"
)

// Holding any key of this group blocks the others: their shapes mostly coincide.
var redundantXGroup = map[string]struct{}{
	KeyBothDiagonals:       {},
	KeyXPatternCentered:    {},
	KeyXPatternAlternating: {},
}

func InRedundantGroup(key string) bool {
	_, ok := redundantXGroup[key]
	return ok
}

// Definition is a named cell subset that earns a bonus once fully completed.
type Definition struct {
	Key    string
	Family Family
	Cells  bingo.CellSet
}

func (d Definition) BaseBonus() int {
	return d.Family.BaseBonus()
}

type Catalog struct {
	defs  []Definition
	byKey map[string]int
}

func NewCatalog(defs []Definition) (Catalog, error) {
	c := Catalog{
		defs:  make([]Definition, 0, len(defs)),
		byKey: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if def.Key == "" {
			return Catalog{}, crerr.Wrap(ErrInvalidPattern, "pattern key is required")
		}
		if !def.Family.Valid() {
			return Catalog{}, crerr.Wrapf(ErrInvalidPattern, "pattern %s has unknown family %q", def.Key, def.Family)
		}
		if _, exists := c.byKey[def.Key]; exists {
			return Catalog{}, crerr.Wrapf(ErrInvalidPattern, "duplicate pattern %s", def.Key)
		}
		c.byKey[def.Key] = len(c.defs)
		c.defs = append(c.defs, def)
	}
	return c, nil
}

func (c Catalog) Lookup(key string) (Definition, bool) {
	idx, ok := c.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return c.defs[idx], true
}

// Resolve maps rotation keys onto definitions, keeping their order.
func (c Catalog) Resolve(keys []string) ([]Definition, error) {
	out := make([]Definition, 0, len(keys))
	for _, key := range keys {
		def, ok := c.Lookup(key)
		if !ok {
			return nil, crerr.Wrapf(ErrUnknownPattern, "%s", key)
		}
		out = append(out, def)
	}
	return out, nil
}

func (c Catalog) All() []Definition {
	return append([]Definition(nil), c.defs...)
}

func (c Catalog) Len() int { return len(c.defs) }

var defaultCatalog = mustCatalog([]Definition{
	grid("row_1", FamilyLine, "XXXXX|.....|....."),
	grid("row_2", FamilyLine, ".....|XXXXX|....."),
	grid("row_3", FamilyLine, ".....|.....|XXXXX"),
	column(1), column(2), column(3), column(4), column(5),
	grid("rows_top_bottom", FamilyMultipleLines, "XXXXX|.....|XXXXX"),
	grid("columns_alternating", FamilyMultipleLines, "X.X.X|X.X.X|X.X.X"),
	grid("columns_outer", FamilyMultipleLines, "X...X|X...X|X...X"),
	grid("diagonal_descending", FamilyDiagonal, ".X...|..X..|...X."),
	grid("diagonal_ascending", FamilyDiagonal, "...X.|..X..|.X..."),
	grid(KeyBothDiagonals, FamilyBothDiagonals, ".X.X.|..X..|.X.X."),
	grid(KeyXPatternCentered, FamilyXPattern, "X...X|.XXX.|X...X"),
	grid(KeyXPatternAlternating, FamilyXPattern, "X.X.X|..X..|X.X.X"),
	grid("corners", FamilyCorners, "X...X|.....|X...X"),
	grid("cross", FamilyCross, "..X..|XXXXX|..X.."),
	grid("diagonal_crosshatch", FamilyDiagonalCrosshatch, "XX.XX|..X..|XX.XX"),
	grid("checkerboard", FamilyCheckerboard, "X.X.X|.X.X.|X.X.X"),
	grid("inversed_checkerboard", FamilyInversedCheckerboard, ".X.X.|X.X.X|.X.X."),
	grid("checkerboard_varietyz", FamilyCheckerboardVarietyz, "X.X.X|.XXX.|X.X.X"),
	grid("outer_border", FamilyOuterBorder, "XXXXX|X...X|XXXXX"),
	grid("zigzag", FamilyZigzag, "X..X.|X.X.X|.X..X"),
	{Key: KeyFullBoard, Family: FamilyFullBoard, Cells: bingo.FullBoard},
})

// DefaultCatalog is the built-in pattern table.
func DefaultCatalog() Catalog {
	return defaultCatalog
}

func grid(key string, family Family, layout string) Definition {
	cells, err := bingo.ParseCellSet(layout)
	if err != nil {
		panic("pattern " + key + ": " + err.Error())
	}
	return Definition{Key: key, Family: family, Cells: cells}
}

func column(n int) Definition {
	col := bingo.CellIndex(n - 1)
	return Definition{
		Key:    "column_" + strconv.Itoa(n),
		Family: FamilyLine,
		Cells:  bingo.CellSetOf(col, col+bingo.BoardCols, col+2*bingo.BoardCols),
	}
}

func mustCatalog(defs []Definition) Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}
