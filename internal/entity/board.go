package entity

const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	BoardSize = 9
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board wraps the 9-cell grid so callers cannot resize it or write
// outside the fixed indices.
type Board struct {
	cells [BoardSize]string
}

// Cell returns the mark at the given index, or EmptyCell when the index
// is out of range.
func (that *Board) Cell(index int) string {
	if index < 0 || index >= BoardSize {
		return EmptyCell
	}
	return that.cells[index]
}

// IsOccupied reports whether the given cell already holds a mark.
func (that *Board) IsOccupied(index int) bool {
	return that.Cell(index) != EmptyCell
}

// InRange reports whether the index addresses one of the 9 cells.
func (that *Board) InRange(index int) bool {
	return index >= 0 && index < BoardSize
}

func (that *Board) set(index int, mark string) {
	that.cells[index] = mark
}

// Cells returns a copy of the grid for serialization and broadcast.
func (that *Board) Cells() [BoardSize]string {
	return that.cells
}

// HasWinner reports whether any of the 8 fixed triples (3 rows,
// 3 columns, 2 diagonals) holds three identical non-empty marks.
func (that *Board) HasWinner() bool {
	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return true
		}
	}

	return false
}
