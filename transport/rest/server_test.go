package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	args := that.Called(ctx, playerID)

	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func (that *mockGameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	args := that.Called(ctx, playerID, gameType)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, gameID, playerID)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) MakeTurn(ctx context.Context, playerID string, action tictactoe.Action) (*entity.Game, error) {
	args := that.Called(ctx, playerID, action)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) Hint(ctx context.Context, playerID string) (*entity.Game, minimax.Evaluation, error) {
	args := that.Called(ctx, playerID)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Get(1).(minimax.Evaluation), args.Error(2)
}

func newTestServer(t *testing.T) (*httptest.Server, *mockGameUseCase) {
	t.Helper()

	useCase := &mockGameUseCase{}
	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), useCase)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(func() {
		ts.Close()
		useCase.AssertExpectations(t)
	})

	return ts, useCase
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func ongoingGame() *entity.Game {
	game := entity.NewGame("g1", entity.WithBotType)
	game.Status = entity.StatusOngoing
	game.Players = []*entity.Player{{ID: "p1", Mark: entity.PlayerX, GameID: "g1"}}

	return game
}

func TestServer_Ping(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/ping", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestServer_CreatePlayer(t *testing.T) {
	// Given: a use case that creates players
	ts, useCase := newTestServer(t)
	useCase.On("GetOrCreatePlayer", mock.Anything, "").
		Return(&entity.Player{ID: "p1"}, nil).
		Once()

	// When: posting without a body
	resp := doRequest(t, http.MethodPost, ts.URL+"/players", "")

	// Then: the new player is returned
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var player entity.Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&player))
	assert.Equal(t, "p1", player.ID)
}

func TestServer_CreateGame(t *testing.T) {
	t.Run("Returns the masked game", func(t *testing.T) {
		ts, useCase := newTestServer(t)
		useCase.On("GetOrCreateGame", mock.Anything, "p1", entity.WithBotType).
			Return(ongoingGame(), nil).
			Once()

		resp := doRequest(t, http.MethodPost, ts.URL+"/games", `{"player_id":"p1","type":"bot"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "g1", body["id"])
		assert.Equal(t, entity.StatusOngoing, body["status"])
		assert.NotContains(t, body, "players")
	})

	t.Run("Rejects a malformed body", func(t *testing.T) {
		ts, _ := newTestServer(t)

		resp := doRequest(t, http.MethodPost, ts.URL+"/games", `{"player_id":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown game type", func(t *testing.T) {
		ts, useCase := newTestServer(t)
		useCase.On("GetOrCreateGame", mock.Anything, "p1", "public").
			Return(nil, entity.ErrUnknownGameType).
			Once()

		resp := doRequest(t, http.MethodPost, ts.URL+"/games", `{"player_id":"p1","type":"public"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestServer_JoinGame(t *testing.T) {
	ts, useCase := newTestServer(t)
	useCase.On("JoinGame", mock.Anything, "g1", "p2").
		Return(nil, service.ErrGameAlreadyExists).
		Once()

	resp := doRequest(t, http.MethodPost, ts.URL+"/games/g1/join", `{"player_id":"p2"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_MakeTurn(t *testing.T) {
	action := tictactoe.Action{Row: 1, Col: 2}

	t.Run("Ongoing game", func(t *testing.T) {
		// Given: a turn that keeps the game going
		ts, useCase := newTestServer(t)
		game := ongoingGame()
		game.Board[1][2] = tictactoe.MarkX
		useCase.On("MakeTurn", mock.Anything, "p1", action).Return(game, nil).Once()

		// When: posting the turn
		resp := doRequest(t, http.MethodPost, ts.URL+"/turns", `{"player_id":"p1","row":1,"col":2}`)

		// Then: the board is returned and the game is not finished
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body turnResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Finished)
		assert.Equal(t, tictactoe.MarkX, body.Game.Board[1][2])
	})

	t.Run("Finished game", func(t *testing.T) {
		ts, useCase := newTestServer(t)
		game := ongoingGame()
		game.Status = entity.StatusFinished
		game.Winner = entity.PlayerX
		useCase.On("MakeTurn", mock.Anything, "p1", action).Return(game, apperror.ErrGameFinished).Once()

		resp := doRequest(t, http.MethodPost, ts.URL+"/turns", `{"player_id":"p1","row":1,"col":2}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body turnResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Finished)
		assert.Equal(t, entity.PlayerX, body.Game.Winner)
	})

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Invalid move", tictactoe.ErrInvalidMove, http.StatusUnprocessableEntity},
		{"Not your turn", apperror.ErrNotYourTurn, http.StatusUnprocessableEntity},
		{"Player not found", repository.ErrPlayerNotFound, http.StatusNotFound},
		{"Not in game", service.ErrNotInGame, http.StatusNotFound},
		{"Storage failure", assert.AnError, http.StatusInternalServerError},
		{"Finished without game", fmt.Errorf("failed to make turn: %w", apperror.ErrGameFinished), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, useCase := newTestServer(t)
			useCase.On("MakeTurn", mock.Anything, "p1", action).Return(nil, tt.err).Once()

			resp := doRequest(t, http.MethodPost, ts.URL+"/turns", `{"player_id":"p1","row":1,"col":2}`)

			assert.Equal(t, tt.status, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestServer_Hint(t *testing.T) {
	// Given: a use case with a winning hint for X
	ts, useCase := newTestServer(t)
	evaluation := minimax.Evaluation{Action: tictactoe.Action{Row: 0, Col: 2}, Value: 1}
	useCase.On("Hint", mock.Anything, "p1").Return(ongoingGame(), evaluation, nil).Once()

	// When: requesting a hint
	resp := doRequest(t, http.MethodGet, ts.URL+"/players/p1/hint", "")

	// Then: the action, value and outcome are returned
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body hintResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, evaluation.Action, body.Hint.Action)
	assert.Equal(t, 1, body.Hint.Value)
	assert.Equal(t, tictactoe.OutcomeXWins.String(), body.Hint.Outcome)
}

func TestServer_GetGame(t *testing.T) {
	ts, useCase := newTestServer(t)
	useCase.On("GetGameByPlayerID", mock.Anything, "p1").Return(nil, service.ErrNotInGame).Once()

	resp := doRequest(t, http.MethodGet, ts.URL+"/players/p1/game", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
