package service

import (
	"context"
	"fmt"

	"betledger/internal/repository"
)

// MembershipGuard answers whether a user may act on a group's data.
type MembershipGuard struct {
	groups *repository.GroupRepository
}

func NewMembershipGuard(groups *repository.GroupRepository) *MembershipGuard {
	return &MembershipGuard{groups: groups}
}

// IsMember reports whether userID belongs to groupID
func (g *MembershipGuard) IsMember(ctx context.Context, userID, groupID int64) (bool, error) {
	ok, err := g.groups.IsGroupMember(ctx, userID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to verify group access: %w", err)
	}
	return ok, nil
}

// Authorize returns ErrForbidden unless userID belongs to groupID.
// Callers resolve the resource first so a missing one reports not found.
func (g *MembershipGuard) Authorize(ctx context.Context, userID, groupID int64) error {
	ok, err := g.IsMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
