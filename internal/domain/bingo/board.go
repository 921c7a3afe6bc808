package bingo

import (
	crerr "github.com/cockroachdb/errors"
)

const (
	BoardRows  = 3
	BoardCols  = 5
	BoardCells = BoardRows * BoardCols
)

var (
	ErrInvalidCell  = crerr.New("invalid board cell")
	ErrInvalidBoard = crerr.New("invalid board")
)

// CellIndex addresses a cell in row-major order: row*BoardCols + col.
type CellIndex int

func NewCellIndex(row, col int) (CellIndex, error) {
	if row < 0 || row >= BoardRows || col < 0 || col >= BoardCols {
		return 0, crerr.Wrapf(ErrInvalidCell, "row=%d col=%d", row, col)
	}
	return CellIndex(row*BoardCols + col), nil
}

func (i CellIndex) Row() int { return int(i) / BoardCols }
func (i CellIndex) Col() int { return int(i) % BoardCols }

func (i CellIndex) Valid() bool {
	return i >= 0 && i < BoardCells
}

type Cell struct {
	Row  int
	Col  int
	Task Task
}

func (c Cell) Index() CellIndex {
	return CellIndex(c.Row*BoardCols + c.Col)
}

// Board binds every cell of the 3x5 grid to a task.
type Board struct {
	ID      string
	EventID string
	Cells   []Cell
}

func (b Board) Validate() error {
	if b.ID == "" {
		return crerr.Wrap(ErrInvalidBoard, "board id is required")
	}
	if len(b.Cells) != BoardCells {
		return crerr.Wrapf(ErrInvalidBoard, "expected %d cells, got %d", BoardCells, len(b.Cells))
	}

	var seen CellSet
	for _, cell := range b.Cells {
		idx, err := NewCellIndex(cell.Row, cell.Col)
		if err != nil {
			return crerr.Wrap(ErrInvalidBoard, err.Error())
		}
		if seen.Has(idx) {
			return crerr.Wrapf(ErrInvalidBoard, "duplicate cell row=%d col=%d", cell.Row, cell.Col)
		}
		seen = seen.With(idx)
		if err := cell.Task.Validate(); err != nil {
			return crerr.Wrap(ErrInvalidBoard, err.Error())
		}
	}
	return nil
}

// Tasks returns the distinct tasks on the board in row-major cell order.
func (b Board) Tasks() []Task {
	ordered := b.orderedCells()
	seen := make(map[string]struct{}, len(ordered))
	out := make([]Task, 0, len(ordered))
	for _, cell := range ordered {
		if _, ok := seen[cell.Task.ID]; ok {
			continue
		}
		seen[cell.Task.ID] = struct{}{}
		out = append(out, cell.Task)
	}
	return out
}

// CellsForTask returns every cell bound to taskID.
func (b Board) CellsForTask(taskID string) CellSet {
	var out CellSet
	for _, cell := range b.Cells {
		if cell.Task.ID == taskID {
			out = out.With(cell.Index())
		}
	}
	return out
}

// CompletedCells maps completed progress rows onto the grid.
func (b Board) CompletedCells(rows []TaskProgress) CellSet {
	var out CellSet
	for _, row := range rows {
		if !row.Completed() {
			continue
		}
		out = out.Union(b.CellsForTask(row.TaskID))
	}
	return out
}

func (b Board) TotalBasePoints() int {
	total := 0
	for _, task := range b.Tasks() {
		total += task.BasePoints
	}
	return total
}

func (b Board) orderedCells() []Cell {
	out := make([]Cell, BoardCells)
	filled := make([]bool, BoardCells)
	extra := make([]Cell, 0)
	for _, cell := range b.Cells {
		idx := cell.Index()
		if !idx.Valid() || filled[idx] {
			extra = append(extra, cell)
			continue
		}
		out[idx] = cell
		filled[idx] = true
	}
	ordered := make([]Cell, 0, len(b.Cells))
	for idx, ok := range filled {
		if ok {
			ordered = append(ordered, out[idx])
		}
	}
	return append(ordered, extra...)
}
