package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookideas/server/internal/auth"
	"github.com/cookideas/server/internal/database"
	"github.com/cookideas/server/internal/models"
	"github.com/cookideas/server/internal/services"
)

type gateFixture struct {
	router       *gin.Engine
	ndas         *services.NDAService
	idea         *models.Idea
	creator      *models.User
	contractor   *models.User
	activeUserID string
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	register := func(username string) *models.User {
		u, err := auth.NewAuth(db.DB).RegisterUser(ctx, auth.RegisterParams{
			Email:     username + "@example.com",
			Username:  username,
			Password:  "correct horse battery",
			FirstName: "Test",
			LastName:  "User",
		})
		require.NoError(t, err)
		return u
	}
	creator := register("founder")
	contractor := register("builder")

	idea, err := services.NewIdeaService(db.DB).CreateIdea(ctx, creator.ID, services.CreateIdeaParams{Name: "Meal Kit Planner"})
	require.NoError(t, err)

	profiles := services.NewProfileService(db.DB)
	memberships := services.NewMembershipService(db.DB)
	debts := services.NewDebtService(db.DB, profiles)
	roles := services.NewRoleService(db.DB, profiles, memberships, debts)
	require.NoError(t, roles.AssignRole(ctx, creator.ID, services.AssignRoleParams{
		IdeaID: idea.ID, Recipient: "builder", Role: models.RoleContractor,
	}))

	ndas := services.NewNDAService(db.DB, memberships)

	f := &gateFixture{ndas: ndas, idea: idea, creator: creator, contractor: contractor}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	setUser := func(c *gin.Context) {
		u := creator
		if f.activeUserID == contractor.ID {
			u = contractor
		}
		c.Set(userContextName, u)
		c.Next()
	}
	router.GET("/api/ideas/:id/transactions", setUser, NDAGateMiddleware(ndas), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	f.router = router
	return f
}

func (f *gateFixture) get(t *testing.T, userID string) *httptest.ResponseRecorder {
	t.Helper()
	f.activeUserID = userID
	req := httptest.NewRequest(http.MethodGet, "/api/ideas/"+f.idea.ID+"/transactions", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestNDAGateBlocksPendingContractor(t *testing.T) {
	f := newGateFixture(t)

	w := f.get(t, f.contractor.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "nda_required")
}

func TestNDAGateAllowsAfterAcceptance(t *testing.T) {
	f := newGateFixture(t)

	require.NoError(t, f.ndas.Accept(context.Background(), f.idea.ID, f.contractor.ID))
	w := f.get(t, f.contractor.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNDAGateIgnoresNonContractors(t *testing.T) {
	f := newGateFixture(t)

	w := f.get(t, f.creator.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}
