package server

import (
	"net/http"
	"testing"
	"time"

	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminApp wires AdminRequired the way SetupRoutes does.
func adminApp(s *Server, adminID uint) *fiber.App {
	app := authedApp(adminID)
	app.Use(s.AdminRequired)
	return app
}

func TestAdminApproveUser(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin@example.com", models.UserStatusApproved, models.RoleAdmin)
	pending := createTestUser(t, db, "pending@example.com", models.UserStatusPending, models.RoleMember)

	app := adminApp(s, admin.ID)
	app.Post("/api/admin/users/:id/approve", s.AdminApproveUser)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/users/2/approve", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var updated models.User
	require.NoError(t, db.First(&updated, pending.ID).Error)
	assert.Equal(t, models.UserStatusApproved, updated.Status)
}

func TestAdminApproveUserTwiceConflicts(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin2@example.com", models.UserStatusApproved, models.RoleAdmin)
	createTestUser(t, db, "done@example.com", models.UserStatusApproved, models.RoleMember)

	app := adminApp(s, admin.ID)
	app.Post("/api/admin/users/:id/approve", s.AdminApproveUser)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/users/2/approve", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminEndpointsRejectRegularMembers(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	member := createTestUser(t, db, "member@example.com", models.UserStatusApproved, models.RoleMember)

	app := adminApp(s, member.ID)
	app.Get("/api/admin/users", s.AdminGetUsers)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/users", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminListUsersByStatus(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin3@example.com", models.UserStatusApproved, models.RoleAdmin)
	createTestUser(t, db, "p1@example.com", models.UserStatusPending, models.RoleMember)
	createTestUser(t, db, "p2@example.com", models.UserStatusPending, models.RoleMember)
	createTestUser(t, db, "a1@example.com", models.UserStatusApproved, models.RoleMember)

	app := adminApp(s, admin.ID)
	app.Get("/api/admin/users", s.AdminGetUsers)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/users?status=pending", nil))
	require.NoError(t, err)

	var users []models.User
	decodeBody(t, resp, &users)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, models.UserStatusPending, u.Status)
	}
}

func TestAdminBulkDeleteSkipsSelf(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin4@example.com", models.UserStatusApproved, models.RoleAdmin)
	u1 := createTestUser(t, db, "u1@example.com", models.UserStatusApproved, models.RoleMember)
	u2 := createTestUser(t, db, "u2@example.com", models.UserStatusRejected, models.RoleMember)

	app := adminApp(s, admin.ID)
	app.Delete("/api/admin/users", s.AdminDeleteUsers)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/admin/users", map[string]any{
		"ids": []uint{admin.ID, u1.ID, u2.ID, 999},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.BatchResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Skipped) // self and missing ID
	assert.Empty(t, result.Errors)

	var stillThere models.User
	require.NoError(t, db.First(&stillThere, admin.ID).Error)
}

func TestAdminApproveCoPNotifiesOwner(t *testing.T) {
	t.Parallel()

	s, db, sent := newTestServer(t)
	admin := createTestUser(t, db, "admin5@example.com", models.UserStatusApproved, models.RoleAdmin)
	owner := createTestUser(t, db, "creator@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "신규 모임", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusPending}
	require.NoError(t, db.Create(cop).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/admin/cops/:id/approve", s.AdminApproveCoP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/cops/1/approve",
		fiber.Map{"status": "approved"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.CoP
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.CoPStatusApproved, updated.Status)

	select {
	case mail := <-sent:
		assert.Equal(t, owner.Email, mail.To)
		assert.Contains(t, mail.Body, "신규 모임")
	case <-time.After(2 * time.Second):
		t.Fatal("expected owner notification email")
	}
}

func TestAdminApproveCoPNonPendingConflicts(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin6@example.com", models.UserStatusApproved, models.RoleAdmin)
	owner := createTestUser(t, db, "creator2@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "이미 승인", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusApproved}
	require.NoError(t, db.Create(cop).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/admin/cops/:id/approve", s.AdminApproveCoP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/cops/1/approve",
		fiber.Map{"status": "approved"}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminApproveCoPRejectsInvalidStatus(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin6b@example.com", models.UserStatusApproved, models.RoleAdmin)
	owner := createTestUser(t, db, "creator2b@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "검토 대기", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusPending}
	require.NoError(t, db.Create(cop).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/admin/cops/:id/approve", s.AdminApproveCoP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/cops/1/approve",
		fiber.Map{"status": "invalid"}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var stored models.CoP
	require.NoError(t, db.First(&stored, cop.ID).Error)
	assert.Equal(t, models.CoPStatusPending, stored.Status)
}

func TestAdminApproveCoPRejectedDecisionSkipsEmail(t *testing.T) {
	t.Parallel()

	s, db, sent := newTestServer(t)
	admin := createTestUser(t, db, "admin6c@example.com", models.UserStatusApproved, models.RoleAdmin)
	owner := createTestUser(t, db, "creator2c@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "반려될 모임", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusPending}
	require.NoError(t, db.Create(cop).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/admin/cops/:id/approve", s.AdminApproveCoP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/cops/1/approve",
		fiber.Map{"status": "rejected"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.CoP
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.CoPStatusRejected, updated.Status)

	select {
	case mail := <-sent:
		t.Fatalf("unexpected email for rejected decision: %q", mail.Subject)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestAdminDeleteCoPsRemovesMemberships(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin7@example.com", models.UserStatusApproved, models.RoleAdmin)
	owner := createTestUser(t, db, "creator3@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "지울 모임", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusApproved}
	require.NoError(t, db.Create(cop).Error)
	require.NoError(t, db.Create(&models.CoPMember{
		CoPID: cop.ID, UserID: owner.ID, Status: models.CoPMemberStatusApproved,
	}).Error)

	app := adminApp(s, admin.ID)
	app.Delete("/api/admin/cops", s.AdminDeleteCoPs)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/admin/cops", map[string]any{
		"ids": []uint{cop.ID},
	}))
	require.NoError(t, err)

	var result models.BatchResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Succeeded)

	var copCount, memberCount int64
	db.Model(&models.CoP{}).Count(&copCount)
	db.Model(&models.CoPMember{}).Count(&memberCount)
	assert.Zero(t, copCount)
	assert.Zero(t, memberCount)
}
