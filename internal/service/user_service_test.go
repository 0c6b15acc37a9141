package service

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/repository/memory"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, repo *memory.UserRepo, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Seed", Email: email, PasswordHash: "x", Role: domain.RoleUser}
	_, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestCreateImageUpload_ReplacesPreviousImage(t *testing.T) {
	repo := memory.NewUserRepo()
	files := &fakeFiles{}
	svc := NewUserService(repo, files)
	ctx := context.Background()
	u := seedUser(t, repo, "img@x.io")

	first, err := svc.CreateImageUpload(ctx, u.ID, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ObjectKey, "profile-images/"+u.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(first.ObjectKey, ".png"))
	assert.Contains(t, first.UploadURL, first.ObjectKey)
	assert.Empty(t, files.deleted)

	second, err := svc.CreateImageUpload(ctx, u.ID, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ObjectKey}, files.deleted)

	stored, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ObjectKey, stored.Image)
	assert.Equal(t, "https://files.test/download/"+second.ObjectKey, svc.ImageURL(ctx, stored))
}

func TestCreateImageUpload_Errors(t *testing.T) {
	repo := memory.NewUserRepo()
	ctx := context.Background()
	u := seedUser(t, repo, "img@x.io")

	_, err := NewUserService(repo, nil).CreateImageUpload(ctx, u.ID, "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)

	svc := NewUserService(repo, &fakeFiles{})
	_, err = svc.CreateImageUpload(ctx, u.ID, "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateImageUpload(ctx, primitive.NewObjectID(), "image/png")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestImageURL_EmptyCases(t *testing.T) {
	repo := memory.NewUserRepo()
	u := seedUser(t, repo, "img@x.io")

	assert.Empty(t, NewUserService(repo, &fakeFiles{}).ImageURL(context.Background(), u))
	u.Image = "profile-images/x.png"
	assert.Empty(t, NewUserService(repo, nil).ImageURL(context.Background(), u))
}

func TestListUsers_OmitsHashes(t *testing.T) {
	repo := memory.NewUserRepo()
	seedUser(t, repo, "a@x.io")
	seedUser(t, repo, "b@x.io")

	users, err := NewUserService(repo, nil).ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestEnsureAdmins(t *testing.T) {
	repo := memory.NewUserRepo()
	ctx := context.Background()
	admin := seedUser(t, repo, "boss@x.io")
	regular := seedUser(t, repo, "staff@x.io")

	svc := NewUserService(repo, nil)
	require.NoError(t, svc.EnsureAdmins(ctx, []string{" BOSS@x.io ", "", "nobody@x.io"}))
	// idempotent
	require.NoError(t, svc.EnsureAdmins(ctx, []string{"boss@x.io"}))

	got, err := svc.GetProfile(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	got, err = svc.GetProfile(ctx, regular.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role)
}
