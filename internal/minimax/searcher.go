package minimax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var ErrNoMoves = errors.New("board is terminal, no moves left")

// Evaluation is a chosen action with its minimax value from X's point of view.
type Evaluation struct {
	Action tictactoe.Action `json:"action"`
	Value  int              `json:"value"`
}

// Outcome is the result of the game if both sides keep playing perfectly.
func (that Evaluation) Outcome() tictactoe.Outcome {
	switch {
	case that.Value > 0:
		return tictactoe.OutcomeXWins
	case that.Value < 0:
		return tictactoe.OutcomeOWins
	default:
		return tictactoe.OutcomeDraw
	}
}

type Option func(*Searcher)

// WithParallel evaluates the root moves concurrently. The chosen move is the same as
// in a sequential search.
func WithParallel(parallel bool) Option {
	return func(that *Searcher) {
		that.parallel = parallel
	}
}

type Searcher struct {
	parallel bool
}

func NewSearcher(opts ...Option) *Searcher {
	searcher := &Searcher{}
	for _, opt := range opts {
		opt(searcher)
	}

	return searcher
}

// Best returns the optimal action for the player to move together with its value.
// The context is only checked between root moves.
func (that *Searcher) Best(ctx context.Context, board tictactoe.Board) (Evaluation, error) {
	if tictactoe.Terminal(board) {
		return Evaluation{}, ErrNoMoves
	}

	maximizing := tictactoe.Player(board) == tictactoe.MarkX
	actions := tictactoe.Actions(board)

	var values []int
	var err error

	if that.parallel {
		values, err = evaluateParallel(ctx, board, actions, maximizing)
	} else {
		values, err = evaluateSequential(ctx, board, actions, maximizing)
	}

	if err != nil {
		return Evaluation{}, fmt.Errorf("search interrupted: %w", err)
	}

	best, ok := pick(actions, values, maximizing)
	if !ok {
		return Evaluation{}, ErrNoMoves
	}

	return best, nil
}

func evaluateSequential(ctx context.Context, board tictactoe.Board, actions []tictactoe.Action, maximizing bool) ([]int, error) {
	values := make([]int, len(actions))

	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values[i] = childValue(board, action, maximizing)
	}

	return values, nil
}

func evaluateParallel(ctx context.Context, board tictactoe.Board, actions []tictactoe.Action, maximizing bool) ([]int, error) {
	values := make([]int, len(actions))

	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			values[i] = childValue(board, action, maximizing)
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
