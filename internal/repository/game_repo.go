package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"betledger/internal/database"
	"betledger/internal/models"
)

// GameRepository handles database operations for games, their bets and wins
type GameRepository struct {
	db *database.DB
}

func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// CreateGame inserts a game into a group
func (r *GameRepository) CreateGame(ctx context.Context, groupID int64, name string) (*models.Game, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO games (name, group_id) VALUES (?, ?)", name, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &models.Game{ID: id, Name: name, GroupID: groupID, CreatedAt: time.Now().UTC()}, nil
}

// GetGameByID retrieves a game, or nil if it does not exist
func (r *GameRepository) GetGameByID(ctx context.Context, gameID int64) (*models.Game, error) {
	game := &models.Game{}
	err := r.db.QueryRowContext(ctx, "SELECT id, name, group_id, created_at FROM games WHERE id = ?", gameID).
		Scan(&game.ID, &game.Name, &game.GroupID, &game.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GetGroupGames lists a group's games, newest first
func (r *GameRepository) GetGroupGames(ctx context.Context, groupID int64) ([]models.Game, error) {
	query := "SELECT id, name, group_id, created_at FROM games WHERE group_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.GroupID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}

// DeleteGame deletes a game together with its bets and wins
func (r *GameRepository) DeleteGame(ctx context.Context, gameID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// CreateBet records a bet against a game
func (r *GameRepository) CreateBet(ctx context.Context, gameID int64, description string) (*models.Bet, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO bets (game_id, description) VALUES (?, ?)", gameID, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}
	return &models.Bet{ID: id, GameID: gameID, Description: description, CreatedAt: time.Now().UTC()}, nil
}

// GetBetByID retrieves a bet, or nil if it does not exist
func (r *GameRepository) GetBetByID(ctx context.Context, betID int64) (*models.Bet, error) {
	bet := &models.Bet{}
	err := r.db.QueryRowContext(ctx, "SELECT id, game_id, description, created_at FROM bets WHERE id = ?", betID).
		Scan(&bet.ID, &bet.GameID, &bet.Description, &bet.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// GetGameBets lists a game's bets, newest first
func (r *GameRepository) GetGameBets(ctx context.Context, gameID int64) ([]models.Bet, error) {
	query := "SELECT id, game_id, description, created_at FROM bets WHERE game_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	bets := []models.Bet{}
	for rows.Next() {
		var b models.Bet
		if err := rows.Scan(&b.ID, &b.GameID, &b.Description, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}
	return bets, nil
}

func (r *GameRepository) DeleteBet(ctx context.Context, betID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bets WHERE id = ?", betID); err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	return nil
}

// CreateWin records that userID won gameID
func (r *GameRepository) CreateWin(ctx context.Context, gameID, userID int64) (*models.Win, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO wins (user_id, game_id) VALUES (?, ?)", userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to create win: %w", err)
	}
	return r.GetWinByID(ctx, id)
}

// GetWinByID retrieves a win with the winner's name, or nil if it does not exist
func (r *GameRepository) GetWinByID(ctx context.Context, winID int64) (*models.Win, error) {
	query := `
		SELECT w.id, w.user_id, w.game_id, u.name, w.created_at
		FROM wins w
		INNER JOIN users u ON w.user_id = u.id
		WHERE w.id = ?
	`
	win := &models.Win{}
	err := r.db.QueryRowContext(ctx, query, winID).Scan(&win.ID, &win.UserID, &win.GameID, &win.UserName, &win.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get win: %w", err)
	}
	return win, nil
}

// GetGameWins lists a game's wins, newest first
func (r *GameRepository) GetGameWins(ctx context.Context, gameID int64) ([]models.Win, error) {
	query := `
		SELECT w.id, w.user_id, w.game_id, u.name, w.created_at
		FROM wins w
		INNER JOIN users u ON w.user_id = u.id
		WHERE w.game_id = ?
		ORDER BY w.created_at DESC, w.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wins: %w", err)
	}
	defer rows.Close()

	wins := []models.Win{}
	for rows.Next() {
		var w models.Win
		if err := rows.Scan(&w.ID, &w.UserID, &w.GameID, &w.UserName, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan win: %w", err)
		}
		wins = append(wins, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wins: %w", err)
	}
	return wins, nil
}

// GetLeaderboard counts wins in gameID for every member of groupID, most wins first
func (r *GameRepository) GetLeaderboard(ctx context.Context, groupID, gameID int64) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.name, COUNT(w.id) AS win_count
		FROM group_members gm
		INNER JOIN users u ON gm.user_id = u.id
		LEFT JOIN wins w ON w.user_id = u.id AND w.game_id = ?
		WHERE gm.group_id = ?
		GROUP BY u.id, u.name
		ORDER BY win_count DESC, u.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, gameID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.WinCount); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}

func (r *GameRepository) DeleteWin(ctx context.Context, winID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM wins WHERE id = ?", winID); err != nil {
		return fmt.Errorf("failed to delete win: %w", err)
	}
	return nil
}
