package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookideas/server/internal/models"
)

func TestCreateIdeaBootstrapsCreatorMembership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")

	idea, err := NewIdeaService(db).CreateIdea(ctx, creator.ID, CreateIdeaParams{
		Name:            "Meal Kit Planner",
		Description:     "weekly meal kits",
		ProblemCategory: "food",
		Visibility:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, creator.ID, idea.CreatorID)
	assert.True(t, idea.Visibility)

	m, err := NewMembershipService(db).GetMembership(ctx, idea.ID, creator.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, models.RoleOwner, m.Role)
	assert.InDelta(t, 100.0, m.Equity(), 1e-9)
}

func TestCreateIdeaValidation(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "founder", "Asha", "Rao")
	ideas := NewIdeaService(db)

	_, err := ideas.CreateIdea(context.Background(), "", CreateIdeaParams{Name: "x"})
	assert.Equal(t, ErrCodeUnauthorized, CodeOf(err))

	_, err = ideas.CreateIdea(context.Background(), creator.ID, CreateIdeaParams{})
	assert.Equal(t, ErrCodeInvalidInput, CodeOf(err))
}

func TestUpdateIdeaPartial(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")
	ideas := NewIdeaService(db)

	solution := "subscription kits"
	updated, err := ideas.UpdateIdea(ctx, idea.ID, UpdateIdeaParams{Solution: &solution})
	require.NoError(t, err)
	assert.Equal(t, "subscription kits", updated.Solution)
	assert.Equal(t, idea.Name, updated.Name)

	empty := ""
	_, err = ideas.UpdateIdea(ctx, idea.ID, UpdateIdeaParams{Name: &empty})
	assert.Equal(t, ErrCodeInvalidInput, CodeOf(err))
}

func TestListPublicIdeasFiltersPrivate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	ideas := NewIdeaService(db)

	_, err := ideas.CreateIdea(ctx, creator.ID, CreateIdeaParams{Name: "public one", Visibility: true})
	require.NoError(t, err)
	_, err = ideas.CreateIdea(ctx, creator.ID, CreateIdeaParams{Name: "private one"})
	require.NoError(t, err)

	public, err := ideas.ListPublicIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "public one", public[0].Name)
}

func TestListIdeasByUserIncludesMemberships(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	creator := createUser(t, db, "founder", "Asha", "Rao")
	viewer := createUser(t, db, "watcher", "Ben", "Okafor")
	idea := createIdea(t, db, creator.ID, "Meal Kit Planner")

	require.NoError(t, newRoleService(db).AssignRole(ctx, creator.ID, AssignRoleParams{
		IdeaID: idea.ID, Recipient: "watcher", Role: models.RoleViewer,
	}))

	list, err := NewIdeaService(db).ListIdeasByUser(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, idea.ID, list[0].ID)

	list, err = NewIdeaService(db).ListIdeasByUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetIdeaByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewIdeaService(db).GetIdeaByID(context.Background(), "missing")
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
}
