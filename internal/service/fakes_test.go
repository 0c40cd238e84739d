package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var (
	errPlayerNotFound = errors.New("player not found")
	errGameNotFound   = errors.New("game not found")
	errStorageIsFull  = errors.New("storage is full")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryPlayerRepo keeps copies of players, like the redis repository does.
type memoryPlayerRepo struct {
	mu      sync.Mutex
	players map[string]entity.Player
}

func newMemoryPlayerRepo() *memoryPlayerRepo {
	return &memoryPlayerRepo{players: map[string]entity.Player{}}
}

func (that *memoryPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = *player

	return nil
}

func (that *memoryPlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, errPlayerNotFound
	}

	return &player, nil
}

type memoryGameRepo struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

func newMemoryGameRepo() *memoryGameRepo {
	return &memoryGameRepo{games: map[string]entity.Game{}}
}

func (that *memoryGameRepo) Create(ctx context.Context, game *entity.Game) error {
	that.mu.Lock()
	_, taken := that.games[game.ID]
	that.mu.Unlock()

	if taken {
		return apperror.ErrGameIDTaken
	}

	return that.CreateOrUpdate(ctx, game)
}

func (that *memoryGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *game
	stored.Players = make([]*entity.Player, 0, len(game.Players))
	for _, player := range game.Players {
		p := *player
		stored.Players = append(stored.Players, &p)
	}

	that.games[game.ID] = stored

	return nil
}

func (that *memoryGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, errGameNotFound
	}

	players := make([]*entity.Player, 0, len(game.Players))
	for _, player := range game.Players {
		p := *player
		players = append(players, &p)
	}
	game.Players = players

	return &game, nil
}

func (that *memoryGameRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return errGameNotFound
	}

	delete(that.games, id)

	return nil
}

type mockSearcher struct {
	mock.Mock
}

func (that *mockSearcher) Best(ctx context.Context, board tictactoe.Board) (minimax.Evaluation, error) {
	args := that.Called(ctx, board)

	return args.Get(0).(minimax.Evaluation), args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

type testServices struct {
	players  *memoryPlayerRepo
	games    *memoryGameRepo
	gamePlay GamePlayService
	player   PlayerService
}

func newTestServices() *testServices {
	players := newMemoryPlayerRepo()
	games := newMemoryGameRepo()

	playerService := NewPlayerService(players)
	gameService := NewGameService(games)
	botService := NewBotService(discardLogger(), minimax.NewSearcher())

	return &testServices{
		players:  players,
		games:    games,
		gamePlay: NewGamePlayService(discardLogger(), playerService, gameService, botService),
		player:   playerService,
	}
}
