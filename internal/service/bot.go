package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
	Hint(ctx context.Context, game *entity.Game) (minimax.Evaluation, error)
}

type searcher interface {
	Best(ctx context.Context, board tictactoe.Board) (minimax.Evaluation, error)
}

// botService plays the bot's side of a game with a full minimax search.
type botService struct {
	logger   *slog.Logger
	searcher searcher
}

func NewBotService(logger *slog.Logger, searcher searcher) BotService {
	return &botService{
		logger:   logger.With("component", "bot"),
		searcher: searcher,
	}
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) error {
	botPlayer, ok := game.GetBot()
	if !ok {
		return ErrBotNotFound
	}

	evaluation, err := that.Hint(ctx, game)
	if err != nil {
		return err
	}

	if err = game.MakeTurn(botPlayer.Mark, evaluation.Action); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("bot made turn",
		"gameID", game.ID,
		"mark", botPlayer.Mark,
		"action", evaluation.Action.String(),
		"value", evaluation.Value,
	)

	return nil
}

// Hint returns the optimal move for whoever is to move in game.
func (that *botService) Hint(ctx context.Context, game *entity.Game) (minimax.Evaluation, error) {
	evaluation, err := that.searcher.Best(ctx, game.Board)
	if errors.Is(err, minimax.ErrNoMoves) {
		return minimax.Evaluation{}, ErrNoAvailableMoves
	}

	if err != nil {
		return minimax.Evaluation{}, fmt.Errorf("failed to search best move: %w", err)
	}

	return evaluation, nil
}
