package bingo

import (
	"errors"
	"strconv"
	"testing"
)

func testBoard(t *testing.T) Board {
	t.Helper()

	cells := make([]Cell, 0, BoardCells)
	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			n := row*BoardCols + col
			cells = append(cells, Cell{
				Row: row,
				Col: col,
				Task: Task{
					ID:         "task-" + strconv.Itoa(n%12),
					Parameter:  "overall",
					Type:       TaskTypeExp,
					Target:     100,
					BasePoints: 10,
				},
			})
		}
	}
	return Board{ID: "board-1", EventID: "event-1", Cells: cells}
}

func TestBoardValidate(t *testing.T) {
	board := testBoard(t)
	if err := board.Validate(); err != nil {
		t.Fatalf("validate board: %v", err)
	}

	short := board
	short.Cells = board.Cells[:14]
	if err := short.Validate(); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard for 14 cells, got %v", err)
	}

	dup := testBoard(t)
	dup.Cells[1].Col = 0
	if err := dup.Validate(); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard for duplicate cell, got %v", err)
	}

	badTask := testBoard(t)
	badTask.Cells[3].Task.Type = "Mana"
	if err := badTask.Validate(); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard for bad task, got %v", err)
	}
}

func TestBoardTasksAreDistinctInRowMajorOrder(t *testing.T) {
	board := testBoard(t)
	// reverse cells to make sure ordering does not depend on input order
	for i, j := 0, len(board.Cells)-1; i < j; i, j = i+1, j-1 {
		board.Cells[i], board.Cells[j] = board.Cells[j], board.Cells[i]
	}

	tasks := board.Tasks()
	if len(tasks) != 12 {
		t.Fatalf("unexpected distinct task count: got=%d want=12", len(tasks))
	}
	if tasks[0].ID != "task-0" || tasks[11].ID != "task-11" {
		t.Fatalf("unexpected task order: first=%s last=%s", tasks[0].ID, tasks[11].ID)
	}
	if got := board.TotalBasePoints(); got != 120 {
		t.Fatalf("unexpected total base points: got=%d want=120", got)
	}
}

func TestBoardCompletedCells(t *testing.T) {
	board := testBoard(t)

	rows := []TaskProgress{
		{TaskID: "task-0", Status: StatusCompleted},
		{TaskID: "task-1", Status: StatusInProgress},
		{TaskID: "task-14", Status: StatusCompleted},
	}
	got := board.CompletedCells(rows)

	// task-0 sits on cells 0 and 12
	want := CellSetOf(0, 12)
	if got != want {
		t.Fatalf("unexpected completed cells: got=%s want=%s", got, want)
	}
}

func TestCellSetOperations(t *testing.T) {
	row := CellSetOf(0, 1, 2, 3, 4)
	col := CellSetOf(0, 5, 10)

	if got := row.Intersect(col); got != CellSetOf(0) {
		t.Fatalf("unexpected intersection: %s", got)
	}
	if got := row.Union(col).Len(); got != 7 {
		t.Fatalf("unexpected union size: got=%d want=7", got)
	}
	if !FullBoard.ContainsAll(row) || row.ContainsAll(col) {
		t.Fatalf("unexpected ContainsAll result")
	}
	if CellSetOf(15, -1).Len() != 0 {
		t.Fatalf("out of range indexes must be ignored")
	}
	if FullBoard.Len() != BoardCells {
		t.Fatalf("full board must cover %d cells", BoardCells)
	}
}

func TestCellSetStringRoundTrip(t *testing.T) {
	corners := CellSetOf(0, 4, 10, 14)
	if got := corners.String(); got != "X...X|.....|X...X" {
		t.Fatalf("unexpected render: %s", got)
	}

	parsed, err := ParseCellSet("x...x|.....|X...X")
	if err != nil {
		t.Fatalf("parse cell set: %v", err)
	}
	if parsed != corners {
		t.Fatalf("unexpected parsed set: %s", parsed)
	}

	if _, err := ParseCellSet("X...X|....."); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if got := CellSetFromInts(corners.Ints()); got != corners {
		t.Fatalf("int round trip mismatch: %s", got)
	}
}

func TestNewCellIndex(t *testing.T) {
	idx, err := NewCellIndex(2, 4)
	if err != nil {
		t.Fatalf("new cell index: %v", err)
	}
	if idx != 14 || idx.Row() != 2 || idx.Col() != 4 || idx.String() != "r3c5" {
		t.Fatalf("unexpected cell index: %d %s", idx, idx)
	}
	if _, err := NewCellIndex(3, 0); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
}
