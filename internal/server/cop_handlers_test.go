package server

import (
	"net/http"
	"testing"
	"time"

	"okai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCoPStartsPendingAndNotifiesAdmin(t *testing.T) {
	t.Parallel()

	s, db, sent := newTestServer(t)
	member := createTestUser(t, db, "founder@example.com", models.UserStatusApproved, models.RoleMember)

	app := authedApp(member.ID)
	app.Post("/api/cops", s.CreateCoP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/cops", map[string]any{
		"name":        "생성형 AI 연구회",
		"description": "주간 스터디",
		"max_members": 10,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var cop models.CoP
	decodeBody(t, resp, &cop)
	assert.Equal(t, models.CoPStatusPending, cop.Status)

	// The creator is enrolled as an approved member.
	var member1 models.CoPMember
	require.NoError(t, db.Where("cop_id = ? AND user_id = ?", cop.ID, member.ID).First(&member1).Error)
	assert.Equal(t, models.CoPMemberStatusApproved, member1.Status)

	select {
	case mail := <-sent:
		assert.Equal(t, s.config.AdminEmail, mail.To)
		assert.Contains(t, mail.Body, "생성형 AI 연구회")
	case <-time.After(2 * time.Second):
		t.Fatal("expected admin notification email")
	}
}

func TestGetCoPsHidesPendingFromRegularUsers(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	owner := createTestUser(t, db, "owner@example.com", models.UserStatusApproved, models.RoleMember)

	require.NoError(t, db.Create(&models.CoP{
		Name: "대기중", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.CoP{
		Name: "승인됨", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusApproved,
	}).Error)

	app := authedApp(0)
	app.Get("/api/cops", s.GetCoPs)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/cops", nil))
	require.NoError(t, err)

	var cops []models.CoP
	decodeBody(t, resp, &cops)
	require.Len(t, cops, 1)
	assert.Equal(t, "승인됨", cops[0].Name)
}

func TestJoinAndApproveCoPMember(t *testing.T) {
	t.Parallel()

	s, db, sent := newTestServer(t)
	owner := createTestUser(t, db, "owner2@example.com", models.UserStatusApproved, models.RoleMember)
	joiner := createTestUser(t, db, "joiner@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "모임", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusApproved}
	require.NoError(t, db.Create(cop).Error)

	joinApp := authedApp(joiner.ID)
	joinApp.Post("/api/cops/:id/join", s.JoinCoP)

	resp, err := joinApp.Test(jsonRequest(t, http.MethodPost, "/api/cops/1/join", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var pendingMember models.CoPMember
	require.NoError(t, db.Where("cop_id = ? AND user_id = ?", cop.ID, joiner.ID).First(&pendingMember).Error)
	assert.Equal(t, models.CoPMemberStatusPending, pendingMember.Status)

	ownerApp := authedApp(owner.ID)
	ownerApp.Post("/api/cops/:id/members/:userId/approve", s.ApproveCoPMember)

	resp, err = ownerApp.Test(jsonRequest(t, http.MethodPost, "/api/cops/1/members/2/approve", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var approved models.CoPMember
	require.NoError(t, db.Where("cop_id = ? AND user_id = ?", cop.ID, joiner.ID).First(&approved).Error)
	assert.Equal(t, models.CoPMemberStatusApproved, approved.Status)

	select {
	case mail := <-sent:
		assert.Equal(t, joiner.Email, mail.To)
	case <-time.After(2 * time.Second):
		t.Fatal("expected member approval email")
	}
}

func TestApproveCoPMemberAtCapacityFails(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	owner := createTestUser(t, db, "owner3@example.com", models.UserStatusApproved, models.RoleMember)
	full := createTestUser(t, db, "full@example.com", models.UserStatusApproved, models.RoleMember)
	waiting := createTestUser(t, db, "waiting@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "소모임", UserID: owner.ID, MaxMembers: 1, Status: models.CoPStatusApproved}
	require.NoError(t, db.Create(cop).Error)
	require.NoError(t, db.Create(&models.CoPMember{
		CoPID: cop.ID, UserID: full.ID, Status: models.CoPMemberStatusApproved,
	}).Error)
	require.NoError(t, db.Create(&models.CoPMember{
		CoPID: cop.ID, UserID: waiting.ID, Status: models.CoPMemberStatusPending,
	}).Error)

	app := authedApp(owner.ID)
	app.Post("/api/cops/:id/members/:userId/approve", s.ApproveCoPMember)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/cops/1/members/3/approve", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestJoinApprovedMemberAgainConflicts(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	owner := createTestUser(t, db, "owner4@example.com", models.UserStatusApproved, models.RoleMember)
	joined := createTestUser(t, db, "joined@example.com", models.UserStatusApproved, models.RoleMember)

	cop := &models.CoP{Name: "모임2", UserID: owner.ID, MaxMembers: 10, Status: models.CoPStatusApproved}
	require.NoError(t, db.Create(cop).Error)
	require.NoError(t, db.Create(&models.CoPMember{
		CoPID: cop.ID, UserID: joined.ID, Status: models.CoPMemberStatusApproved,
	}).Error)

	app := authedApp(joined.ID)
	app.Post("/api/cops/:id/join", s.JoinCoP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/cops/1/join", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
