package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"
)

const (
	PrivateType = "private"
	WithBotType = "bot"
)

var (
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrUnknownGameType   = errors.New("unknown game type")
)

type Game struct {
	ID      string          `json:"id"`
	Board   tictactoe.Board `json:"board"`
	Winner  string          `json:"winner"`
	Status  string          `json:"status"`
	Turn    string          `json:"player_turn"`
	Players []*Player       `json:"players,omitempty"`
	Type    string          `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  tictactoe.InitialState(),
		Turn:   PlayerX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// ValidateType checks that the game type is one the server can play.
func ValidateType(gameType string) error {
	switch gameType {
	case PrivateType, WithBotType:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}
}

// DetermineGameResult returns the winning mark, PlayerTie for a draw, or "" while the game goes on.
func (that *Game) DetermineGameResult() string {
	if winner, ok := tictactoe.Winner(that.Board); ok {
		return winner.String()
	}

	// the game will continue until all the squares are full
	if !tictactoe.Terminal(that.Board) {
		return ""
	}

	return PlayerTie
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Status = StatusOngoing
		that.Turn = tictactoe.Player(that.Board).String()
	}
}

// MakeTurn places playerMark at action. The board is replaced only when the move is legal.
func (that *Game) MakeTurn(playerMark string, action tictactoe.Action) error {
	if !action.InBounds() {
		return fmt.Errorf("%w: cell %s", tictactoe.ErrInvalidMove, action)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board.Cell(action) != tictactoe.Empty {
		return fmt.Errorf("%w: %w", apperror.ErrCellOccupied, tictactoe.ErrInvalidMove)
	}

	board, err := tictactoe.Result(that.Board, action)
	if err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) Outcome() tictactoe.Outcome {
	return tictactoe.GetOutcome(that.Board)
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) GetBot() (*Player, bool) {
	for _, player := range that.Players {
		if player.IsBot() {
			return player, true
		}
	}

	return nil, false
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
