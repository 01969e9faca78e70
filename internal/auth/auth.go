package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
)

// Auth handles registration, login, and session validation
type Auth struct {
	db *sql.DB
}

// NewAuth creates a new Auth instance
func NewAuth(db *sql.DB) *Auth {
	return &Auth{db: db}
}

// RegisterParams holds the fields for a new account.
type RegisterParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// RegisterUser creates a new user account. The account record is also the
// user's public profile.
func (a *Auth) RegisterUser(ctx context.Context, p RegisterParams) (*models.User, error) {
	var existingID string
	err := a.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ? OR username = ?", p.Email, p.Username).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("an account with that email or username already exists")
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New().String()
	now := time.Now().Unix()

	_, err = a.db.ExecContext(ctx,
		"INSERT INTO users (id, email, username, password_hash, first_name, last_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		userID, p.Email, p.Username, passwordHash, p.FirstName, p.LastName, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return a.GetUserByID(ctx, userID)
}

// GetUserByID retrieves a user by ID
func (a *Auth) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return a.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (a *Auth) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return a.getUser(ctx, "email", email)
}

func (a *Auth) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	var createdAt, updatedAt int64

	err := a.db.QueryRowContext(ctx,
		"SELECT id, email, username, password_hash, first_name, last_name, avatar_url, bio, skills, created_at, updated_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.AvatarURL, &user.Bio, &user.Skills, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}

// LoginUser authenticates a user and creates a session
func (a *Auth) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := a.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	sessionToken, err := GenerateSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	sessionID := uuid.New().String()
	expiresAt := CalculateExpiry()
	now := time.Now().Unix()

	_, err = a.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?, ?)",
		sessionID, user.ID, sessionToken, expiresAt.Unix(), now,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return user, sessionToken, nil
}

// ValidateSession validates a session token and returns the user
func (a *Auth) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	var userID string
	var expiresAt int64

	err := a.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM sessions WHERE token = ?",
		token,
	).Scan(&userID, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invalid session")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if time.Now().Unix() > expiresAt {
		a.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
		return nil, fmt.Errorf("session expired")
	}

	return a.GetUserByID(ctx, userID)
}

// LogoutUser deletes a session
func (a *Auth) LogoutUser(ctx context.Context, token string) error {
	_, err := a.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions
func (a *Auth) CleanupExpiredSessions(ctx context.Context) error {
	now := time.Now().Unix()
	_, err := a.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", now)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	return nil
}
