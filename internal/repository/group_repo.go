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

// GroupRepository handles database operations for groups and their members
type GroupRepository struct {
	db *database.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup creates a new group and adds the creator as a member
func (r *GroupRepository) CreateGroup(ctx context.Context, name string, creatorUserID int64) (*models.Group, error) {
	var groupID int64
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		groupID, err = tx.ExecReturningID(ctx, "INSERT INTO bet_groups (name, created_by) VALUES (?, ?)", name, creatorUserID)
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		_, err = tx.ExecContext(ctx, "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)", groupID, creatorUserID)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.Group{
		ID:        groupID,
		Name:      name,
		CreatedBy: creatorUserID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GetGroupByID retrieves a group by ID, or nil if it does not exist
func (r *GroupRepository) GetGroupByID(ctx context.Context, groupID int64) (*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.created_by, u.name, g.created_at
		FROM bet_groups g
		INNER JOIN users u ON g.created_by = u.id
		WHERE g.id = ?
	`
	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(
		&group.ID, &group.Name, &group.CreatedBy, &group.CreatedByName, &group.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetUserGroups retrieves every group the user belongs to, newest first
func (r *GroupRepository) GetUserGroups(ctx context.Context, userID int64) ([]models.Group, error) {
	query := `
		SELECT g.id, g.name, g.created_by, u.name, g.created_at
		FROM bet_groups g
		INNER JOIN group_members gm ON g.id = gm.group_id
		INNER JOIN users u ON g.created_by = u.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC, g.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedByName, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// AddGroupMember adds a user to a group. Returns ErrDuplicate if already a member.
func (r *GroupRepository) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)", groupID, userID)
	if err != nil {
		if r.db.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes a user from a group and reports whether they were a member
func (r *GroupRepository) RemoveGroupMember(ctx context.Context, groupID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove group member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove group member: %w", err)
	}
	return rows > 0, nil
}

// IsGroupMember checks if a user is a member of a group
func (r *GroupRepository) IsGroupMember(ctx context.Context, userID, groupID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM group_members WHERE user_id = ? AND group_id = ?"
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, groupID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

// GetGroupMembers retrieves all members of a group in join order
func (r *GroupRepository) GetGroupMembers(ctx context.Context, groupID int64) ([]models.GroupMember, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM group_members gm
		INNER JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at ASC, u.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	members := []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// DeleteGroup deletes a group. Members, games, bets and wins go with it via
// ON DELETE CASCADE.
func (r *GroupRepository) DeleteGroup(ctx context.Context, groupID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bet_groups WHERE id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
