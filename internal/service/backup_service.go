package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"betledger/internal/database"
)

const backupVersion = "1"

// ErrBackupTargetNotEmpty is returned when importing into a database that already holds accounts.
var ErrBackupTargetNotEmpty = errors.New("import target already contains users")

// BackupData is the complete exported ledger. Reset tokens are not exported.
type BackupData struct {
	Version      string         `json:"version"`
	ExportedAt   time.Time      `json:"exported_at"`
	DatabaseType string         `json:"database_type"`
	Users        []UserBackup   `json:"users"`
	Groups       []GroupBackup  `json:"groups"`
	Members      []MemberBackup `json:"members"`
	Games        []GameBackup   `json:"games"`
	Bets         []BetBackup    `json:"bets"`
	Wins         []WinBackup    `json:"wins"`
}

// UserBackup keeps the password hash and OAuth binding so accounts survive a restore
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash,omitempty"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider,omitempty"`
	OAuthID       string    `json:"oauth_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type GroupBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type MemberBackup struct {
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type GameBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	GroupID   int64     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

type BetBackup struct {
	ID          int64     `json:"id"`
	GameID      int64     `json:"game_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type WinBackup struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db  *database.DB
	log *slog.Logger
}

func NewBackupService(db *database.DB, logger *slog.Logger) *BackupService {
	return &BackupService{db: db, log: logger}
}

// Export writes the whole ledger to w as indented JSON
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	if err := s.exportUsers(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportGroups(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export groups: %w", err)
	}
	if err := s.exportGames(ctx, backup); err != nil {
		return nil, fmt.Errorf("failed to export games: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("database exported",
		"users", len(backup.Users),
		"groups", len(backup.Groups),
		"games", len(backup.Games),
		"bets", len(backup.Bets),
		"wins", len(backup.Wins),
	)
	return backup, nil
}

// Import restores a backup read from r into an empty database, in one transaction.
// Row IDs are preserved.
func (s *BackupService) Import(ctx context.Context, r io.Reader) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		var users int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if users > 0 {
			return ErrBackupTargetNotEmpty
		}

		for _, u := range backup.Users {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_id, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				u.ID, u.Email, nullIfEmpty(u.PasswordHash), u.Name, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthID), u.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to import user %d: %w", u.ID, err)
			}
		}
		for _, g := range backup.Groups {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO bet_groups (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
				g.ID, g.Name, g.CreatedBy, g.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to import group %d: %w", g.ID, err)
			}
		}
		for _, m := range backup.Members {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
				m.GroupID, m.UserID, m.JoinedAt,
			); err != nil {
				return fmt.Errorf("failed to import membership %d/%d: %w", m.GroupID, m.UserID, err)
			}
		}
		for _, g := range backup.Games {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO games (id, name, group_id, created_at) VALUES (?, ?, ?, ?)",
				g.ID, g.Name, g.GroupID, g.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to import game %d: %w", g.ID, err)
			}
		}
		for _, b := range backup.Bets {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO bets (id, game_id, description, created_at) VALUES (?, ?, ?, ?)",
				b.ID, b.GameID, b.Description, b.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to import bet %d: %w", b.ID, err)
			}
		}
		for _, w := range backup.Wins {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO wins (id, user_id, game_id, created_at) VALUES (?, ?, ?, ?)",
				w.ID, w.UserID, w.GameID, w.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to import win %d: %w", w.ID, err)
			}
		}

		// explicit IDs leave postgres sequences behind
		if s.db.Dialect.DriverName() == "postgres" {
			for _, table := range []string{"users", "bet_groups", "games", "bets", "wins"} {
				query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table)
				if _, err := tx.ExecContext(ctx, query); err != nil {
					return fmt.Errorf("failed to reset %s sequence: %w", table, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("database imported", "version", backup.Version, "exported_at", backup.ExportedAt, "users", len(backup.Users))
	return &backup, nil
}

func (s *BackupService) exportUsers(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, password_hash, name, oauth_provider, oauth_id, created_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		var hash, provider, providerID sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &hash, &u.Name, &provider, &providerID, &u.CreatedAt); err != nil {
			return err
		}
		u.PasswordHash, u.OAuthProvider, u.OAuthID = hash.String, provider.String, providerID.String
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportGroups(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_by, created_at FROM bet_groups ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GroupBackup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
			return err
		}
		backup.Groups = append(backup.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	memberRows, err := s.db.QueryContext(ctx, "SELECT group_id, user_id, joined_at FROM group_members ORDER BY group_id, user_id")
	if err != nil {
		return err
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var m MemberBackup
		if err := memberRows.Scan(&m.GroupID, &m.UserID, &m.JoinedAt); err != nil {
			return err
		}
		backup.Members = append(backup.Members, m)
	}
	return memberRows.Err()
}

func (s *BackupService) exportGames(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, group_id, created_at FROM games ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g GameBackup
		if err := rows.Scan(&g.ID, &g.Name, &g.GroupID, &g.CreatedAt); err != nil {
			return err
		}
		backup.Games = append(backup.Games, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	betRows, err := s.db.QueryContext(ctx, "SELECT id, game_id, description, created_at FROM bets ORDER BY id")
	if err != nil {
		return err
	}
	defer betRows.Close()
	for betRows.Next() {
		var b BetBackup
		if err := betRows.Scan(&b.ID, &b.GameID, &b.Description, &b.CreatedAt); err != nil {
			return err
		}
		backup.Bets = append(backup.Bets, b)
	}
	if err := betRows.Err(); err != nil {
		return err
	}

	winRows, err := s.db.QueryContext(ctx, "SELECT id, user_id, game_id, created_at FROM wins ORDER BY id")
	if err != nil {
		return err
	}
	defer winRows.Close()
	for winRows.Next() {
		var w WinBackup
		if err := winRows.Scan(&w.ID, &w.UserID, &w.GameID, &w.CreatedAt); err != nil {
			return err
		}
		backup.Wins = append(backup.Wins, w)
	}
	return winRows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
