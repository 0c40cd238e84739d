package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
)

type GameService interface {
	CreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, *entity.Player, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error

	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

const maxCreateAttempts = 3

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	gameRepo gameRepo
}

func NewGameService(gameRepo gameRepo) GameService {
	return &gameService{
		gameRepo: gameRepo,
	}
}

func (that *gameService) CreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, *entity.Player, error) {
	if err := entity.ValidateType(gameType); err != nil {
		return nil, nil, fmt.Errorf("failed to create game: %w", err)
	}

	var err error
	for range maxCreateAttempts {
		var gameID string
		gameID, err = pkg.GenerateGameID()
		if err != nil {
			return nil, nil, fmt.Errorf("error generating game ID: %w", err)
		}

		game := entity.NewGame(gameID, gameType)
		game.Players = []*entity.Player{{ID: player.ID, GameID: gameID, Mark: entity.PlayerX}}

		err = that.gameRepo.Create(ctx, game)
		if errors.Is(err, apperror.ErrGameIDTaken) {
			continue
		}

		if err != nil {
			return nil, nil, fmt.Errorf("failed to create game from storage: %w", err)
		}

		player.GameID = gameID
		player.Mark = entity.PlayerX
		game.Players[0] = player

		return game, player, nil
	}

	return nil, nil, fmt.Errorf("failed to create game after %d attempts: %w", maxCreateAttempts, err)
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

func (that *gameService) UpdateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *gameService) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
