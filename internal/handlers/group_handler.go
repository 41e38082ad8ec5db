package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"betledger/internal/service"
)

// LedgerHandler serves groups, games, bets and wins. Every route runs behind RequireAuth.
type LedgerHandler struct {
	ledger *service.LedgerService
	log    *slog.Logger
}

func NewLedgerHandler(ledger *service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, log: logger}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Email string `json:"email"`
}

func (h *LedgerHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	groups, err := h.ledger.ListGroups(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to list groups")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *LedgerHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}

	group, err := h.ledger.CreateGroup(r.Context(), userID, req.Name)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to create group")
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *LedgerHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	groupID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	group, err := h.ledger.GetGroup(r.Context(), userID, groupID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to load group")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *LedgerHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	groupID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}

	member, err := h.ledger.AddMember(r.Context(), userID, groupID, req.Email)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to add member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *LedgerHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	groupID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.ledger.RemoveMember(r.Context(), userID, groupID, memberID); err != nil {
		respondWithServiceError(w, h.log, err, "failed to remove member")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Member removed"})
}

func (h *LedgerHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	groupID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteGroup(r.Context(), userID, groupID); err != nil {
		respondWithServiceError(w, h.log, err, "failed to delete group")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Group deleted"})
}

// pathID parses a numeric path segment, answering 400 when it is malformed
func (h *LedgerHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, h.log, http.StatusBadRequest, MsgInvalidID, "", nil)
		return 0, false
	}
	return id, true
}
