// Package minimax finds optimal tic-tac-toe moves by exhaustive game-tree search.
//
// X maximises and O minimises the utility of the terminal board. The search has no pruning,
// memoisation or depth limit: the tree below any board is at most nine plies deep.
// Among equally good moves the first one in row-major order is chosen.
package minimax

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

// Minimax returns the optimal action for the player to move.
// It returns false when the board is terminal and no move is left to make.
func Minimax(board tictactoe.Board) (tictactoe.Action, bool) {
	if tictactoe.Terminal(board) {
		return tictactoe.Action{}, false
	}

	maximizing := tictactoe.Player(board) == tictactoe.MarkX
	actions := tictactoe.Actions(board)

	values := make([]int, len(actions))
	for i, action := range actions {
		values[i] = childValue(board, action, maximizing)
	}

	best, ok := pick(actions, values, maximizing)

	return best.Action, ok
}

func maxValue(board tictactoe.Board) int {
	if tictactoe.Terminal(board) {
		return tictactoe.Utility(board)
	}

	value := math.MinInt
	for _, action := range tictactoe.Actions(board) {
		next, err := tictactoe.Result(board, action)
		if err != nil {
			continue
		}

		value = max(value, minValue(next))
	}

	return value
}

func minValue(board tictactoe.Board) int {
	if tictactoe.Terminal(board) {
		return tictactoe.Utility(board)
	}

	value := math.MaxInt
	for _, action := range tictactoe.Actions(board) {
		next, err := tictactoe.Result(board, action)
		if err != nil {
			continue
		}

		value = min(value, maxValue(next))
	}

	return value
}

// childValue is the value of playing action on board, seen from the opponent's reply.
func childValue(board tictactoe.Board, action tictactoe.Action, maximizing bool) int {
	next, err := tictactoe.Result(board, action)
	if err != nil {
		return initScore(maximizing)
	}

	if maximizing {
		return minValue(next)
	}

	return maxValue(next)
}

// pick keeps the first action with a strictly better value than everything seen before it.
// The first action always becomes the running best.
func pick(actions []tictactoe.Action, values []int, maximizing bool) (Evaluation, bool) {
	var (
		best  Evaluation
		found bool
	)

	for i, action := range actions {
		if found && !better(values[i], best.Value, maximizing) {
			continue
		}

		best = Evaluation{Action: action, Value: values[i]}
		found = true
	}

	return best, found
}

func better(value, than int, maximizing bool) bool {
	if maximizing {
		return value > than
	}

	return value < than
}

func initScore(maximizing bool) int {
	if maximizing {
		return math.MinInt
	}

	return math.MaxInt
}
