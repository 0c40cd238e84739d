package tictactoe

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

// Outcome of a board, derived on demand.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeXWins
	OutcomeOWins
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeXWins:
		return "x_wins"
	case OutcomeOWins:
		return "o_wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// lines lists the three rows, three columns and two diagonals.
var lines = [8][3]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Player returns the mark that moves next. X starts, and moves whenever the counts are equal.
func Player(board Board) Cell {
	if board.Equal(InitialState()) {
		return MarkX
	}

	if board.Count(MarkX) > board.Count(MarkO) {
		return MarkO
	}

	return MarkX
}

// Actions returns every empty cell in row-major order.
func Actions(board Board) []Action {
	actions := make([]Action, 0, Size*Size)

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if board[row][col] == Empty {
				actions = append(actions, Action{Row: row, Col: col})
			}
		}
	}

	return actions
}

// Result returns a copy of board with the current player's mark placed at action.
// The given board is never modified.
func Result(board Board, action Action) (Board, error) {
	if !action.InBounds() {
		return board, fmt.Errorf("%w: %s is out of range", ErrInvalidMove, action)
	}

	if board.Cell(action) != Empty {
		return board, fmt.Errorf("%w: %s is occupied", ErrInvalidMove, action)
	}

	next := board
	next[action.Row][action.Col] = Player(board)

	return next, nil
}

// Winner returns the first mark, X before O, that fills a line.
func Winner(board Board) (Cell, bool) {
	for _, mark := range [2]Cell{MarkX, MarkO} {
		for _, line := range lines {
			if board.Cell(line[0]) == mark && board.Cell(line[1]) == mark && board.Cell(line[2]) == mark {
				return mark, true
			}
		}
	}

	return Empty, false
}

// Terminal reports whether the game is over.
func Terminal(board Board) bool {
	if _, ok := Winner(board); ok {
		return true
	}

	return board.Count(Empty) == 0
}

// Utility scores a terminal board from X's point of view: 1, -1 or 0.
func Utility(board Board) int {
	winner, _ := Winner(board)

	switch winner {
	case MarkX:
		return 1
	case MarkO:
		return -1
	default:
		return 0
	}
}

// GetOutcome is the result of the board so far. It is OutcomeNone while play continues.
func GetOutcome(board Board) Outcome {
	switch winner, ok := Winner(board); {
	case ok && winner == MarkX:
		return OutcomeXWins
	case ok:
		return OutcomeOWins
	case Terminal(board):
		return OutcomeDraw
	default:
		return OutcomeNone
	}
}
