package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cookideas/server/internal/auth"
	"github.com/cookideas/server/internal/database"
	"github.com/cookideas/server/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB
}

func createUser(t *testing.T, db *sql.DB, username, firstName, lastName string) *models.User {
	t.Helper()
	u, err := auth.NewAuth(db).RegisterUser(context.Background(), auth.RegisterParams{
		Email:     username + "@example.com",
		Username:  username,
		Password:  "correct horse battery",
		FirstName: firstName,
		LastName:  lastName,
	})
	require.NoError(t, err)
	return u
}

func createIdea(t *testing.T, db *sql.DB, creatorID, name string) *models.Idea {
	t.Helper()
	idea, err := NewIdeaService(db).CreateIdea(context.Background(), creatorID, CreateIdeaParams{
		Name:        name,
		Description: "a test idea",
	})
	require.NoError(t, err)
	return idea
}

func newRoleService(db *sql.DB) *RoleService {
	profiles := NewProfileService(db)
	memberships := NewMembershipService(db)
	debts := NewDebtService(db, profiles)
	return NewRoleService(db, profiles, memberships, debts)
}

func memberEquity(t *testing.T, db *sql.DB, ideaID, userID string) float64 {
	t.Helper()
	m, err := NewMembershipService(db).GetMembership(context.Background(), ideaID, userID)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Equity()
}

func memberRole(t *testing.T, db *sql.DB, ideaID, userID string) string {
	t.Helper()
	m, err := NewMembershipService(db).GetMembership(context.Background(), ideaID, userID)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Role
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}
