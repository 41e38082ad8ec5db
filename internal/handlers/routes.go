package handlers

import (
	"log/slog"
	"net/http"
)

// Router bundles the handlers NewRouter mounts
type Router struct {
	Auth       *AuthHandler
	Ledger     *LedgerHandler
	Middleware *Middleware
	Startup    *StartupStatus
	Logger     *slog.Logger
}

// Handler registers every route and wraps the mux with request logging.
func (rt Router) Handler() http.Handler {
	mux := http.NewServeMux()
	auth := rt.Middleware.RequireAuth

	mux.HandleFunc("GET /api/health", rt.Startup.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", rt.Auth.Signup)
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", auth(rt.Auth.Me))
	mux.HandleFunc("POST /api/auth/forgot-password", rt.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", rt.Auth.ResetPassword)
	mux.HandleFunc("GET /api/auth/{provider}", rt.Auth.StartOAuth)
	mux.HandleFunc("GET /api/auth/{provider}/callback", rt.Auth.OAuthCallback)

	// Groups
	mux.HandleFunc("GET /api/groups", auth(rt.Ledger.ListGroups))
	mux.HandleFunc("POST /api/groups", auth(rt.Ledger.CreateGroup))
	mux.HandleFunc("GET /api/groups/{id}", auth(rt.Ledger.GetGroup))
	mux.HandleFunc("DELETE /api/groups/{id}", auth(rt.Ledger.DeleteGroup))
	mux.HandleFunc("POST /api/groups/{id}/members", auth(rt.Ledger.AddMember))
	mux.HandleFunc("DELETE /api/groups/{id}/members/{userId}", auth(rt.Ledger.RemoveMember))

	// Games
	mux.HandleFunc("GET /api/games/group/{groupId}", auth(rt.Ledger.ListGames))
	mux.HandleFunc("POST /api/games", auth(rt.Ledger.CreateGame))
	mux.HandleFunc("DELETE /api/games/{id}", auth(rt.Ledger.DeleteGame))

	// Bets
	mux.HandleFunc("GET /api/bets/game/{gameId}", auth(rt.Ledger.ListBets))
	mux.HandleFunc("POST /api/bets", auth(rt.Ledger.CreateBet))
	mux.HandleFunc("DELETE /api/bets/{id}", auth(rt.Ledger.DeleteBet))

	// Wins
	mux.HandleFunc("GET /api/wins/game/{gameId}", auth(rt.Ledger.ListWins))
	mux.HandleFunc("GET /api/wins/game/{gameId}/leaderboard", auth(rt.Ledger.Leaderboard))
	mux.HandleFunc("POST /api/wins", auth(rt.Ledger.RecordWin))
	mux.HandleFunc("DELETE /api/wins/{id}", auth(rt.Ledger.DeleteWin))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, rt.Logger, http.StatusNotFound, MsgNotFound, "", nil)
	})

	return Logging(rt.Logger, mux)
}
