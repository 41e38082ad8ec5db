package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idBody struct {
	ID int64 `json:"id"`
}

func TestGroupAccessForbiddenUntilMemberAdded(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com", "Owner")
	friend := s.signup(t, "friend@example.com", "Friend")

	rec := s.do(t, http.MethodPost, "/api/groups", owner.Token, map[string]string{"name": "Poker Night"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	group := decodeBody[idBody](t, rec)
	groupPath := fmt.Sprintf("/api/groups/%d", group.ID)

	rec = s.do(t, http.MethodGet, groupPath, friend.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, MsgForbidden, errorMessage(t, rec))

	gamesPath := fmt.Sprintf("/api/games/group/%d", group.ID)
	rec = s.do(t, http.MethodGet, gamesPath, friend.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, MsgForbidden, errorMessage(t, rec))

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/groups/%d", group.ID+1000), friend.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, groupPath+"/members", owner.Token, map[string]string{"email": "FRIEND@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, groupPath, friend.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"friend@example.com"`)

	rec = s.do(t, http.MethodGet, gamesPath, friend.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodPost, groupPath+"/members", owner.Token, map[string]string{"email": "friend@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgAlreadyMember, errorMessage(t, rec))

	rec = s.do(t, http.MethodPost, groupPath+"/members", owner.Token, map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found. They need to sign up first.", errorMessage(t, rec))
}

func TestGamesBetsAndWins(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com", "Owner")
	outsider := s.signup(t, "outsider@example.com", "Outsider")

	rec := s.do(t, http.MethodPost, "/api/groups", owner.Token, map[string]string{"name": "Office"})
	require.Equal(t, http.StatusCreated, rec.Code)
	group := decodeBody[idBody](t, rec)

	rec = s.do(t, http.MethodPost, "/api/games", owner.Token, map[string]any{"name": "Foosball", "groupId": group.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	game := decodeBody[idBody](t, rec)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/games/group/%d", group.ID), outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/games/group/9999", outsider.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/bets", owner.Token, map[string]any{"gameId": game.ID, "description": "Winner picks lunch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/bets/game/%d", game.ID), owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Winner picks lunch")

	rec = s.do(t, http.MethodPost, "/api/wins", owner.Token, map[string]any{"gameId": game.ID, "userId": outsider.User.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgWinnerNotMember, errorMessage(t, rec))

	rec = s.do(t, http.MethodPost, "/api/wins", owner.Token, map[string]any{"gameId": game.ID, "userId": owner.User.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	win := decodeBody[idBody](t, rec)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/wins/game/%d/leaderboard", game.ID), owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"win_count":1`)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/wins/%d", win.ID), outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/games/%d", game.ID), owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/wins/game/%d", game.ID), owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLedgerRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/groups", "/api/games/group/1", "/api/bets/game/1", "/api/wins/game/1"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestInvalidPathID(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com", "Owner")

	rec := s.do(t, http.MethodGet, "/api/groups/abc", owner.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgInvalidID, errorMessage(t, rec))
}
