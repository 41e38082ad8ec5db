package handlers

import (
	"net/http"
)

type createGameRequest struct {
	Name    string `json:"name"`
	GroupID int64  `json:"groupId"`
}

type createBetRequest struct {
	GameID      int64  `json:"gameId"`
	Description string `json:"description"`
}

type recordWinRequest struct {
	GameID int64 `json:"gameId"`
	UserID int64 `json:"userId"`
}

func (h *LedgerHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	groupID, ok := h.pathID(w, r, "groupId")
	if !ok {
		return
	}

	games, err := h.ledger.ListGames(r.Context(), userID, groupID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to list games")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *LedgerHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req createGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}
	if req.GroupID <= 0 {
		respondWithError(w, h.log, http.StatusBadRequest, "Name and groupId are required", "", nil)
		return
	}

	game, err := h.ledger.CreateGame(r.Context(), userID, req.GroupID, req.Name)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to create game")
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (h *LedgerHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	gameID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteGame(r.Context(), userID, gameID); err != nil {
		respondWithServiceError(w, h.log, err, "failed to delete game")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Game deleted"})
}

func (h *LedgerHandler) ListBets(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	gameID, ok := h.pathID(w, r, "gameId")
	if !ok {
		return
	}

	bets, err := h.ledger.ListBets(r.Context(), userID, gameID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to list bets")
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

func (h *LedgerHandler) CreateBet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req createBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}
	if req.GameID <= 0 {
		respondWithError(w, h.log, http.StatusBadRequest, "gameId and description are required", "", nil)
		return
	}

	bet, err := h.ledger.CreateBet(r.Context(), userID, req.GameID, req.Description)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to create bet")
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

func (h *LedgerHandler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	betID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteBet(r.Context(), userID, betID); err != nil {
		respondWithServiceError(w, h.log, err, "failed to delete bet")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Bet deleted"})
}

func (h *LedgerHandler) ListWins(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	gameID, ok := h.pathID(w, r, "gameId")
	if !ok {
		return
	}

	wins, err := h.ledger.ListWins(r.Context(), userID, gameID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to list wins")
		return
	}
	writeJSON(w, http.StatusOK, wins)
}

func (h *LedgerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	gameID, ok := h.pathID(w, r, "gameId")
	if !ok {
		return
	}

	board, err := h.ledger.Leaderboard(r.Context(), userID, gameID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to build leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *LedgerHandler) RecordWin(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req recordWinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}
	if req.GameID <= 0 || req.UserID <= 0 {
		respondWithError(w, h.log, http.StatusBadRequest, "gameId and userId are required", "", nil)
		return
	}

	win, err := h.ledger.RecordWin(r.Context(), userID, req.GameID, req.UserID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to record win")
		return
	}
	writeJSON(w, http.StatusCreated, win)
}

func (h *LedgerHandler) DeleteWin(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	winID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteWin(r.Context(), userID, winID); err != nil {
		respondWithServiceError(w, h.log, err, "failed to delete win")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Win deleted"})
}
