package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByUsernameOrEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "asha", "Asha", "Rao")
	profiles := NewProfileService(db)

	byUsername, err := profiles.Resolve(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := profiles.Resolve(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = profiles.Resolve(ctx, "nobody")
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
}

func TestProfileUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "asha", "Asha", "Rao")
	profiles := NewProfileService(db)

	bio := "building food tech"
	updated, err := profiles.Update(ctx, user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "building food tech", *updated.Bio)
	assert.Equal(t, "Asha", updated.FirstName)

	first := "Aisha"
	updated, err = profiles.Update(ctx, user.ID, ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Aisha", updated.FirstName)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "building food tech", *updated.Bio)
}
