package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var (
	errBadRequest = errors.New("bad request")
	errNoGame     = errors.New("no game returned")
)

type createPlayerRequest struct {
	PlayerID string `json:"player_id"`
}

type createGameRequest struct {
	PlayerID string `json:"player_id"`
	Type     string `json:"type"`
}

type joinGameRequest struct {
	PlayerID string `json:"player_id"`
}

type turnRequest struct {
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

type turnResponse struct {
	Game     *entity.Game `json:"game"`
	Finished bool         `json:"finished"`
}

type hint struct {
	Action  tictactoe.Action `json:"action"`
	Value   int              `json:"value"`
	Outcome string           `json:"outcome"`
}

type hintResponse struct {
	Game *entity.Game `json:"game"`
	Hint hint         `json:"hint"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *Server) createPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeError(w, errBadRequest)
			return
		}
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(r.Context(), req.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) getGameHandler(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGameByPlayerID(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, maskGameDetails(game))
}

func (that *Server) createGameHandler(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		that.writeError(w, errBadRequest)
		return
	}

	game, err := that.gameUseCase.GetOrCreateGame(r.Context(), req.PlayerID, req.Type)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, maskGameDetails(game))
}

func (that *Server) joinGameHandler(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		that.writeError(w, errBadRequest)
		return
	}

	game, err := that.gameUseCase.JoinGame(r.Context(), chi.URLParam(r, "gameID"), req.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, maskGameDetails(game))
}

func (that *Server) makeTurnHandler(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		that.writeError(w, errBadRequest)
		return
	}

	action := tictactoe.Action{Row: req.Row, Col: req.Col}

	game, err := that.gameUseCase.MakeTurn(r.Context(), req.PlayerID, action)
	if game == nil && err == nil {
		err = errNoGame
	}

	if errors.Is(err, apperror.ErrGameFinished) && game != nil {
		that.writeJSON(w, http.StatusOK, turnResponse{Game: maskGameDetails(game), Finished: true})
		return
	}

	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, turnResponse{Game: maskGameDetails(game)})
}

func (that *Server) hintHandler(w http.ResponseWriter, r *http.Request) {
	game, evaluation, err := that.gameUseCase.Hint(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, hintResponse{
		Game: maskGameDetails(game),
		Hint: hint{
			Action:  evaluation.Action,
			Value:   evaluation.Value,
			Outcome: evaluation.Outcome().String(),
		},
	})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, service.ErrNotInGame):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGameAlreadyExists),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, tictactoe.ErrInvalidMove),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, entity.ErrUnknownGameType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
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
