package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var (
	errPlayerRequired = errors.New("player is missing in payload")
	errNoGame         = errors.New("no game returned")
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil && len(msg.Payload) != 0 {
		that.sendErrorResponse(c, msg.Action, "malformed payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		that.sendErrorResponse(c, msg.Action, "failed to create a new player")
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	that.register(player.ID, c)

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
		} else {
			payloadResp.Game = maskGameDetails(game)
		}
	}

	if err = that.sendMessage(c, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, c *client) error {
	payloadReq, err := that.playerPayload(msg, c)
	if err != nil {
		return err
	}

	var gameType string
	if payloadReq.Game != nil {
		gameType = payloadReq.Game.Type
	}

	if gameType == "" {
		gameType = entity.WithBotType
	}

	game, err := that.gameUseCase.GetOrCreateGame(ctx, c.playerID, gameType)
	if err != nil {
		that.sendErrorResponse(c, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to get or create game: %w", err)
	}

	return that.sendMessage(c, msg.Action, Payload{Game: maskGameDetails(game)})
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, c *client) error {
	payloadReq, err := that.playerPayload(msg, c)
	if err != nil {
		return err
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		that.sendErrorResponse(c, msg.Action, "game id is required")
		return nil
	}

	game, err := that.gameUseCase.JoinGame(ctx, payloadReq.Game.ID, c.playerID)
	if err != nil {
		that.sendErrorResponse(c, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to join game: %w", err)
	}

	that.broadcast(game, msg.Action, Payload{Game: maskGameDetails(game)})

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, c *client) error {
	payloadReq, err := that.playerPayload(msg, c)
	if err != nil {
		return err
	}

	var action tictactoe.Action
	switch {
	case payloadReq.Move != nil:
		action = *payloadReq.Move
	case payloadReq.Cell != nil:
		action = tictactoe.ActionFromIndex(*payloadReq.Cell)
	default:
		that.sendErrorResponse(c, msg.Action, "move is required")
		return nil
	}

	game, err := that.gameUseCase.MakeTurn(ctx, c.playerID, action)
	if game == nil || (err != nil && !errors.Is(err, apperror.ErrGameFinished)) {
		if err == nil {
			err = errNoGame
		}

		that.sendErrorResponse(c, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to make turn: %w", err)
	}

	that.broadcast(game, msg.Action, Payload{Game: maskGameDetails(game)})

	return nil
}

func (that *Server) handleGameHint(ctx context.Context, msg *Message, c *client) error {
	if _, err := that.playerPayload(msg, c); err != nil {
		return err
	}

	game, evaluation, err := that.gameUseCase.Hint(ctx, c.playerID)
	if err != nil {
		that.sendErrorResponse(c, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to get hint: %w", err)
	}

	cell := evaluation.Action.Index()

	return that.sendMessage(c, msg.Action, Payload{Game: maskGameDetails(game), Hint: &evaluation, Cell: &cell})
}

// playerPayload decodes the payload and binds the connection to the player in it
// when the client didn't connect first.
func (that *Server) playerPayload(msg *Message, c *client) (Payload, error) {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendErrorResponse(c, msg.Action, "malformed payload")
		return Payload{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player != nil && payloadReq.Player.ID != "" && payloadReq.Player.ID != c.playerID {
		that.register(payloadReq.Player.ID, c)
	}

	if c.playerID == "" {
		that.sendErrorResponse(c, msg.Action, "player is required")
		return Payload{}, errPlayerRequired
	}

	return payloadReq, nil
}

// broadcast sends the game update to every connected human player of the game.
func (that *Server) broadcast(game *entity.Game, action string, payload Payload) {
	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		c, ok := that.connection(player.ID)
		if !ok {
			continue
		}

		if err := that.sendMessage(c, action, payload); err != nil {
			that.logger.Error("failed to notify player", "playerID", player.ID, "error", err)
		}
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return apperror.ErrGameFinished.Error()
	case errors.Is(err, apperror.ErrNotYourTurn):
		return apperror.ErrNotYourTurn.Error()
	case errors.Is(err, apperror.ErrCellOccupied):
		return apperror.ErrCellOccupied.Error()
	case errors.Is(err, tictactoe.ErrInvalidMove):
		return tictactoe.ErrInvalidMove.Error()
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		return apperror.ErrGameIsNotStarted.Error()
	case errors.Is(err, service.ErrGameAlreadyExists):
		return service.ErrGameAlreadyExists.Error()
	case errors.Is(err, service.ErrNotInGame):
		return service.ErrNotInGame.Error()
	case errors.Is(err, entity.ErrUnknownGameType):
		return entity.ErrUnknownGameType.Error()
	default:
		return "internal error"
	}
}

// maskGameDetails hides the players of the game from the response.
func maskGameDetails(game *entity.Game) *entity.Game {
	if game == nil {
		return nil
	}

	masked := *game
	masked.Players = nil

	return &masked
}
