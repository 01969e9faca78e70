package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cookideas/server/internal/models"
)

// ProfileService handles profile lookups and updates
type ProfileService struct {
	db *sql.DB
}

// NewProfileService creates a new ProfileService
func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = "id, email, username, password_hash, first_name, last_name, avatar_url, bio, skills, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var createdAt, updatedAt int64
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.AvatarURL, &user.Bio,
		&user.Skills, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}

// GetByID retrieves a user by ID
func (s *ProfileService) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(ErrCodeNotFound, "profile not found")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(ErrCodeNotFound, "profile not found")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

// Resolve retrieves a user by username or email. Role assignment accepts
// either identifier.
func (s *ProfileService) Resolve(ctx context.Context, identifier string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM users WHERE username = ? OR email = ?",
		identifier, identifier,
	)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(ErrCodeNotFound, "profile not found")
		}
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}
	return user, nil
}

// ProfileUpdate holds the mutable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
	Bio       *string
	Skills    *string
}

// Update applies a partial profile update and returns the fresh record.
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = upd.AvatarURL
	}
	if upd.Bio != nil {
		user.Bio = upd.Bio
	}
	if upd.Skills != nil {
		user.Skills = upd.Skills
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET first_name = ?, last_name = ?, avatar_url = ?, bio = ?, skills = ?, updated_at = ? WHERE id = ?",
		user.FirstName, user.LastName, user.AvatarURL, user.Bio, user.Skills, time.Now().Unix(), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetByID(ctx, userID)
}
