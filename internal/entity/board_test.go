package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_HasWinner(t *testing.T) {
	t.Run("Empty board has no winner", func(t *testing.T) {
		// Given: a fresh board
		board := &Board{}

		// Then: no winner should be detected
		assert.False(t, board.HasWinner())
	})

	t.Run("Empty cells never match each other", func(t *testing.T) {
		// Given: a board with a single mark, everything else empty
		board := &Board{}
		board.set(4, MarkX)

		// Then: three empty cells in a row must not count as a win
		assert.False(t, board.HasWinner())
	})

	t.Run("Detects every winning triple", func(t *testing.T) {
		for _, combo := range WinCombos {
			for _, mark := range []string{MarkX, MarkO} {
				name := fmt.Sprintf("combo %v for %s", combo, mark)
				t.Run(name, func(t *testing.T) {
					// Given: a board with exactly one completed triple
					board := &Board{}
					for _, cell := range combo {
						board.set(cell, mark)
					}

					// Then: the triple should be detected as a win
					require.True(t, board.HasWinner())
				})
			}
		}
	})

	t.Run("Mixed marks in a triple are not a win", func(t *testing.T) {
		// Given: a top row holding X, O, X
		board := &Board{}
		board.set(0, MarkX)
		board.set(1, MarkO)
		board.set(2, MarkX)

		// Then: no winner should be detected
		assert.False(t, board.HasWinner())
	})
}

func TestBoard_Cell(t *testing.T) {
	t.Run("Out-of-range index reads as empty", func(t *testing.T) {
		// Given: a board with one mark
		board := &Board{}
		board.set(0, MarkX)

		// Then: reads outside [0,8] should return the empty cell
		assert.Equal(t, EmptyCell, board.Cell(-1))
		assert.Equal(t, EmptyCell, board.Cell(9))
		assert.Equal(t, MarkX, board.Cell(0))
	})

	t.Run("InRange accepts only the 9 fixed indices", func(t *testing.T) {
		board := &Board{}

		assert.True(t, board.InRange(0))
		assert.True(t, board.InRange(8))
		assert.False(t, board.InRange(-1))
		assert.False(t, board.InRange(9))
	})
}
