package service

import (
	"context"
	"errors"
	"strings"

	"betledger/internal/models"
	"betledger/internal/repository"
	"betledger/internal/validation"
)

// LedgerService manages groups and their games, bets and wins. Every
// operation resolves the target first and then checks membership, so a
// missing resource is reported before a forbidden one.
type LedgerService struct {
	groups *repository.GroupRepository
	games  *repository.GameRepository
	users  *repository.UserRepository
	guard  *MembershipGuard
}

func NewLedgerService(groups *repository.GroupRepository, games *repository.GameRepository, users *repository.UserRepository, guard *MembershipGuard) *LedgerService {
	return &LedgerService{groups: groups, games: games, users: users, guard: guard}
}

// ListGroups returns the caller's groups
func (s *LedgerService) ListGroups(ctx context.Context, userID int64) ([]models.Group, error) {
	return s.groups.GetUserGroups(ctx, userID)
}

// CreateGroup creates a group with the caller as its first member
func (s *LedgerService) CreateGroup(ctx context.Context, userID int64, name string) (*models.Group, error) {
	if err := validation.ValidateText("name", "Group name", name, validation.MaxNameLength); err != nil {
		return nil, err
	}
	return s.groups.CreateGroup(ctx, strings.TrimSpace(name), userID)
}

// GetGroup returns a group with its members
func (s *LedgerService) GetGroup(ctx context.Context, userID, groupID int64) (*models.GroupWithMembers, error) {
	group, err := s.authorizeGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.groups.GetGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &models.GroupWithMembers{Group: *group, Members: members}, nil
}

// AddMember adds the account registered under email to the group
func (s *LedgerService) AddMember(ctx context.Context, userID, groupID int64, email string) (*models.GroupMember, error) {
	if strings.TrimSpace(email) == "" {
		return nil, validation.ValidationError{Field: "email", Message: "Email is required"}
	}
	if _, err := s.authorizeGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}

	invitee, err := s.users.GetUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, ErrInviteeNotFound
	}

	if err := s.groups.AddGroupMember(ctx, groupID, invitee.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	return &models.GroupMember{ID: invitee.ID, Name: invitee.Name, Email: invitee.Email}, nil
}

// RemoveMember removes memberID from the group
func (s *LedgerService) RemoveMember(ctx context.Context, userID, groupID, memberID int64) error {
	if _, err := s.authorizeGroup(ctx, userID, groupID); err != nil {
		return err
	}
	removed, err := s.groups.RemoveGroupMember(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

// DeleteGroup deletes the group and everything recorded in it
func (s *LedgerService) DeleteGroup(ctx context.Context, userID, groupID int64) error {
	if _, err := s.authorizeGroup(ctx, userID, groupID); err != nil {
		return err
	}
	return s.groups.DeleteGroup(ctx, groupID)
}

func (s *LedgerService) ListGames(ctx context.Context, userID, groupID int64) ([]models.Game, error) {
	if _, err := s.authorizeGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.games.GetGroupGames(ctx, groupID)
}

func (s *LedgerService) CreateGame(ctx context.Context, userID, groupID int64, name string) (*models.Game, error) {
	if err := validation.ValidateText("name", "Game name", name, validation.MaxNameLength); err != nil {
		return nil, err
	}
	if _, err := s.authorizeGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.games.CreateGame(ctx, groupID, strings.TrimSpace(name))
}

func (s *LedgerService) DeleteGame(ctx context.Context, userID, gameID int64) error {
	if _, err := s.authorizeGame(ctx, userID, gameID); err != nil {
		return err
	}
	return s.games.DeleteGame(ctx, gameID)
}

func (s *LedgerService) ListBets(ctx context.Context, userID, gameID int64) ([]models.Bet, error) {
	if _, err := s.authorizeGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.games.GetGameBets(ctx, gameID)
}

func (s *LedgerService) CreateBet(ctx context.Context, userID, gameID int64, description string) (*models.Bet, error) {
	if err := validation.ValidateRequired("description", "Description", description); err != nil {
		return nil, err
	}
	if _, err := s.authorizeGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.games.CreateBet(ctx, gameID, strings.TrimSpace(description))
}

func (s *LedgerService) DeleteBet(ctx context.Context, userID, betID int64) error {
	bet, err := s.games.GetBetByID(ctx, betID)
	if err != nil {
		return err
	}
	if bet == nil {
		return ErrBetNotFound
	}
	if _, err := s.authorizeGame(ctx, userID, bet.GameID); err != nil {
		return err
	}
	return s.games.DeleteBet(ctx, betID)
}

func (s *LedgerService) ListWins(ctx context.Context, userID, gameID int64) ([]models.Win, error) {
	if _, err := s.authorizeGame(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.games.GetGameWins(ctx, gameID)
}

// Leaderboard counts wins in a game for every member of its group
func (s *LedgerService) Leaderboard(ctx context.Context, userID, gameID int64) ([]models.LeaderboardEntry, error) {
	game, err := s.authorizeGame(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	return s.games.GetLeaderboard(ctx, game.GroupID, gameID)
}

// RecordWin records that winnerID won the game. The winner must belong to the game's group.
func (s *LedgerService) RecordWin(ctx context.Context, userID, gameID, winnerID int64) (*models.Win, error) {
	game, err := s.authorizeGame(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	ok, err := s.guard.IsMember(ctx, winnerID, game.GroupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWinnerNotMember
	}
	return s.games.CreateWin(ctx, gameID, winnerID)
}

func (s *LedgerService) DeleteWin(ctx context.Context, userID, winID int64) error {
	win, err := s.games.GetWinByID(ctx, winID)
	if err != nil {
		return err
	}
	if win == nil {
		return ErrWinNotFound
	}
	if _, err := s.authorizeGame(ctx, userID, win.GameID); err != nil {
		return err
	}
	return s.games.DeleteWin(ctx, winID)
}

func (s *LedgerService) authorizeGroup(ctx context.Context, userID, groupID int64) (*models.Group, error) {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if err := s.guard.Authorize(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *LedgerService) authorizeGame(ctx context.Context, userID, gameID int64) (*models.Game, error) {
	game, err := s.games.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if err := s.guard.Authorize(ctx, userID, game.GroupID); err != nil {
		return nil, err
	}
	return game, nil
}
