package bingo

import (
	"math/bits"
	"strconv"
	"strings"
)

// CellSet is a bitmask over the 15 board cells.
type CellSet uint16

const FullBoard CellSet = 1<<BoardCells - 1

func CellSetOf(indexes ...CellIndex) CellSet {
	var out CellSet
	for _, idx := range indexes {
		out = out.With(idx)
	}
	return out
}

func (s CellSet) With(idx CellIndex) CellSet {
	if !idx.Valid() {
		return s
	}
	return s | 1<<uint(idx)
}

func (s CellSet) Has(idx CellIndex) bool {
	if !idx.Valid() {
		return false
	}
	return s&(1<<uint(idx)) != 0
}

func (s CellSet) Union(other CellSet) CellSet { return s | other }
func (s CellSet) Intersect(other CellSet) CellSet { return s & other }
func (s CellSet) ContainsAll(other CellSet) bool { return s&other == other }
func (s CellSet) Len() int { return bits.OnesCount16(uint16(s & FullBoard)) }
func (s CellSet) Empty() bool { return s&FullBoard == 0 }

func (s CellSet) Indexes() []CellIndex {
	out := make([]CellIndex, 0, s.Len())
	for idx := CellIndex(0); idx < BoardCells; idx++ {
		if s.Has(idx) {
			out = append(out, idx)
		}
	}
	return out
}

func (s CellSet) Ints() []int64 {
	idx := s.Indexes()
	out := make([]int64, 0, len(idx))
	for _, v := range idx {
		out = append(out, int64(v))
	}
	return out
}

func CellSetFromInts(values []int64) CellSet {
	var out CellSet
	for _, v := range values {
		out = out.With(CellIndex(v))
	}
	return out
}

// String renders the grid row by row, e.g. "X..X.|.....|X...X".
func (s CellSet) String() string {
	var b strings.Builder
	for row := 0; row < BoardRows; row++ {
		if row > 0 {
			b.WriteByte('|')
		}
		for col := 0; col < BoardCols; col++ {
			if s.Has(CellIndex(row*BoardCols + col)) {
				b.WriteByte('X')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// ParseCellSet reads the String form back. Unknown characters other than 'X'/'x' are empty cells.
func ParseCellSet(raw string) (CellSet, error) {
	rows := strings.Split(strings.TrimSpace(raw), "|")
	if len(rows) != BoardRows {
		return 0, ErrInvalidCell
	}
	var out CellSet
	for row, line := range rows {
		if len(line) != BoardCols {
			return 0, ErrInvalidCell
		}
		for col := 0; col < BoardCols; col++ {
			if line[col] == 'X' || line[col] == 'x' {
				out = out.With(CellIndex(row*BoardCols + col))
			}
		}
	}
	return out, nil
}

func (i CellIndex) String() string {
	return "r" + strconv.Itoa(i.Row()+1) + "c" + strconv.Itoa(i.Col()+1)
}
