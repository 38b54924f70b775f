package server

import (
	"net/http"
	"testing"

	"okai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	member := createTestUser(t, db, "me@example.com", models.UserStatusApproved, models.RoleMember)

	app := authedApp(member.ID)
	app.Get("/api/users/me", s.GetMyProfile)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, member.ID, me.ID)
	assert.Equal(t, "me@example.com", me.Email)
}

func TestGetMyProfileDeletedUser(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	member := createTestUser(t, db, "gone@example.com", models.UserStatusApproved, models.RoleMember)
	require.NoError(t, db.Delete(&models.User{}, member.ID).Error)

	app := authedApp(member.ID)
	app.Get("/api/users/me", s.GetMyProfile)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	member := createTestUser(t, db, "edit@example.com", models.UserStatusApproved, models.RoleMember)

	app := authedApp(member.ID)
	app.Put("/api/users/me", s.UpdateMyProfile)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/users/me", map[string]string{
		"name":       "새 이름",
		"department": "IT기획팀",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var updated models.User
	require.NoError(t, db.First(&updated, member.ID).Error)
	assert.Equal(t, "새 이름", updated.Name)
	assert.Equal(t, "IT기획팀", updated.Department)
	// Email is not editable through this endpoint.
	assert.Equal(t, "edit@example.com", updated.Email)
}

func TestGetUserPostsUnknownUser(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	app := authedApp(0)
	app.Get("/api/users/:id/posts", s.GetUserPosts)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/users/999/posts", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
