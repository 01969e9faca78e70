package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cookideas/server/internal/models"
)

// MembershipService handles idea membership queries and removal
type MembershipService struct {
	db *sql.DB
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(db *sql.DB) *MembershipService {
	return &MembershipService{db: db}
}

const membershipColumns = "id, idea_id, user_id, role, equity_percentage, access_expires_at, created_at"

func scanMembership(scanner interface{ Scan(...any) error }) (*models.Membership, error) {
	var m models.Membership
	var createdAt int64
	var expiresAt sql.NullInt64
	err := scanner.Scan(&m.ID, &m.IdeaID, &m.UserID, &m.Role, &m.EquityPercentage, &expiresAt, &createdAt)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = time.Unix(createdAt, 0)
	if expiresAt.Valid {
		t := time.Unix(expiresAt.Int64, 0)
		m.AccessExpiresAt = &t
	}
	return &m, nil
}

// GetMembership retrieves the membership row for (idea, user), or nil when
// none exists.
func (s *MembershipService) GetMembership(ctx context.Context, ideaID, userID string) (*models.Membership, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM idea_members WHERE idea_id = ? AND user_id = ?",
		ideaID, userID,
	)
	m, err := scanMembership(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// RoleInIdea resolves the user's effective role on an idea. The idea's
// creator holds implicit owner permission even without a membership row.
func (s *MembershipService) RoleInIdea(ctx context.Context, ideaID, userID string) (string, bool, error) {
	m, err := s.GetMembership(ctx, ideaID, userID)
	if err != nil {
		return "", false, err
	}
	if m != nil {
		return m.Role, true, nil
	}

	var creatorID string
	err = s.db.QueryRowContext(ctx, "SELECT creator_id FROM ideas WHERE id = ?", ideaID).Scan(&creatorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get idea creator: %w", err)
	}
	if creatorID == userID {
		return models.RoleOwner, true, nil
	}
	return "", false, nil
}

// CanEdit reports whether the user may edit the idea, its NDA, and its team
// (creator, owner, or equity owner).
func (s *MembershipService) CanEdit(ctx context.Context, ideaID, userID string) (bool, error) {
	role, found, err := s.RoleInIdea(ctx, ideaID, userID)
	if err != nil || !found {
		return false, err
	}
	return role == models.RoleOwner || role == models.RoleEquityOwner, nil
}

// CanWrite reports whether the user may contribute content to the idea
// (creator, owner, equity owner, or contractor).
func (s *MembershipService) CanWrite(ctx context.Context, ideaID, userID string) (bool, error) {
	role, found, err := s.RoleInIdea(ctx, ideaID, userID)
	if err != nil || !found {
		return false, err
	}
	return role == models.RoleOwner || role == models.RoleEquityOwner || role == models.RoleContractor, nil
}

// ListMembers returns the idea's memberships joined with profiles, ordered by
// role. When the creator holds no explicit row they are synthesized at the
// head of the list as an owner with 100% equity.
func (s *MembershipService) ListMembers(ctx context.Context, ideaID string) ([]*models.MemberWithProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.idea_id, m.user_id, m.role, m.equity_percentage, m.access_expires_at, m.created_at,
		        u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.bio, u.skills
		 FROM idea_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.idea_id = ?
		 ORDER BY m.role`,
		ideaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.MemberWithProfile
	creatorPresent := make(map[string]bool)
	for rows.Next() {
		var m models.MemberWithProfile
		var createdAt int64
		var expiresAt sql.NullInt64
		err := rows.Scan(
			&m.ID, &m.IdeaID, &m.UserID, &m.Role, &m.EquityPercentage, &expiresAt, &createdAt,
			&m.Profile.ID, &m.Profile.Username, &m.Profile.FirstName, &m.Profile.LastName,
			&m.Profile.AvatarURL, &m.Profile.Bio, &m.Profile.Skills,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0)
		if expiresAt.Valid {
			t := time.Unix(expiresAt.Int64, 0)
			m.AccessExpiresAt = &t
		}
		creatorPresent[m.UserID] = true
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	var creatorID string
	if err := s.db.QueryRowContext(ctx, "SELECT creator_id FROM ideas WHERE id = ?", ideaID).Scan(&creatorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(ErrCodeNotFound, "idea not found")
		}
		return nil, fmt.Errorf("failed to get idea creator: %w", err)
	}

	if !creatorPresent[creatorID] {
		var p models.Profile
		err := s.db.QueryRowContext(ctx,
			"SELECT id, username, first_name, last_name, avatar_url, bio, skills FROM users WHERE id = ?",
			creatorID,
		).Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName, &p.AvatarURL, &p.Bio, &p.Skills)
		if err != nil {
			return nil, fmt.Errorf("failed to get creator profile: %w", err)
		}
		equity := 100.0
		synthetic := &models.MemberWithProfile{
			Membership: models.Membership{
				ID:               "creator",
				IdeaID:           ideaID,
				UserID:           creatorID,
				Role:             models.RoleOwner,
				EquityPercentage: &equity,
			},
			Profile: p,
		}
		members = append([]*models.MemberWithProfile{synthetic}, members...)
	}

	return members, nil
}

// RemoveMember deletes a membership row. Only viewer and contractor
// memberships may be removed through this path, and only by an actor with
// edit permission on the idea. Equity-holding and debt-financier memberships
// are refused so the equity ledger and debt records stay consistent.
func (s *MembershipService) RemoveMember(ctx context.Context, actorID, membershipID string) error {
	if actorID == "" {
		return newError(ErrCodeUnauthorized, "you must be logged in to remove members")
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM idea_members WHERE id = ?",
		membershipID,
	)
	target, err := scanMembership(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return newError(ErrCodeNotFound, "membership not found")
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}

	canEdit, err := s.CanEdit(ctx, target.IdeaID, actorID)
	if err != nil {
		return err
	}
	if !canEdit {
		return newError(ErrCodeInsufficientPermission, "you do not have permission to remove members")
	}

	if target.Role != models.RoleViewer && target.Role != models.RoleContractor {
		return newError(ErrCodeRemovalForbidden, "only viewer and contractor memberships can be removed")
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM idea_members WHERE id = ?", membershipID); err != nil {
		return wrapError(ErrCodeDeleteFailed, "failed to remove member", err)
	}
	return nil
}
