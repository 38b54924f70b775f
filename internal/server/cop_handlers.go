package server

import (
	"strings"

	"okai/internal/mailer"
	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

type copRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
}

// GetCoPs lists communities of practice. Regular callers see approved CoPs
// only; admins may filter by status.
func (s *Server) GetCoPs(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	status := models.CoPStatusApproved
	if raw := c.Query("status"); raw != "" {
		userID := optionalUserID(c)
		if userID != 0 {
			user, err := s.userRepo.GetByID(c.Context(), userID)
			if err != nil {
				return models.RespondWithError(c, models.NewInternalError(err))
			}
			if user != nil && user.IsAdmin() {
				status = models.CoPStatus(raw)
			}
		}
	}

	cops, err := s.copRepo.List(c.Context(), status, limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(cops)
}

// GetCoP returns a single CoP with its member count.
func (s *Server) GetCoP(c *fiber.Ctx) error {
	copID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cop, err := s.copRepo.GetByID(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if cop == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("CoP를 찾을 수 없습니다."))
	}
	return c.JSON(cop)
}

// CreateCoP registers a CoP in pending state and notifies the administrator.
// The creator is enrolled as an approved member immediately.
func (s *Server) CreateCoP(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req copRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c,
			models.NewValidationError("CoP 이름을 입력해주세요."))
	}
	if req.MaxMembers <= 0 {
		req.MaxMembers = 20
	}

	cop := &models.CoP{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
		UserID:      user.ID,
		Status:      models.CoPStatusPending,
	}
	if err := s.copRepo.Create(c.Context(), cop); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	owner := &models.CoPMember{
		CoPID:  cop.ID,
		UserID: user.ID,
		Status: models.CoPMemberStatusApproved,
	}
	if err := s.copRepo.UpsertMember(c.Context(), owner); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	s.mailer.Notify(mailer.KindCoPCreated, s.config.AdminEmail, mailer.Payload{
		UserName:  user.Name,
		UserEmail: user.Email,
		CoPName:   cop.Name,
	})

	return c.Status(fiber.StatusCreated).JSON(cop)
}

// UpdateCoP edits name, description or capacity. Owner or admin only.
// Status changes go through the admin approval endpoint.
func (s *Server) UpdateCoP(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	copID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cop, err := s.copRepo.GetByID(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if cop == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("CoP를 찾을 수 없습니다."))
	}
	if cop.UserID != user.ID && !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("CoP 개설자만 수정할 수 있습니다."))
	}

	var req copRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		cop.Name = name
	}
	if req.Description != "" {
		cop.Description = req.Description
	}
	if req.MaxMembers > 0 {
		cop.MaxMembers = req.MaxMembers
	}

	if err := s.copRepo.Update(c.Context(), cop); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(cop)
}

// JoinCoP files a pending join request for an approved CoP. Re-joining while
// already an approved member is a conflict; a repeated pending request is
// idempotent.
func (s *Server) JoinCoP(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	copID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cop, err := s.copRepo.GetByID(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if cop == nil || cop.Status != models.CoPStatusApproved {
		return models.RespondWithError(c,
			models.NewNotFoundError("CoP를 찾을 수 없습니다."))
	}

	existing, err := s.copRepo.GetMember(c.Context(), copID, user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if existing != nil && existing.Status == models.CoPMemberStatusApproved {
		return models.RespondWithError(c,
			models.NewConflictError("이미 가입된 CoP입니다."))
	}

	member := &models.CoPMember{
		CoPID:  copID,
		UserID: user.ID,
		Status: models.CoPMemberStatusPending,
	}
	if err := s.copRepo.UpsertMember(c.Context(), member); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "가입 신청이 접수되었습니다. 개설자 승인 후 활동할 수 있습니다.",
		"member":  member,
	})
}

// GetCoPMembers lists a CoP's members. The owner and admins see join
// requests too; everyone else sees approved members only.
func (s *Server) GetCoPMembers(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	copID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cop, err := s.copRepo.GetByID(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if cop == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("CoP를 찾을 수 없습니다."))
	}

	members, err := s.copRepo.ListMembers(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	if cop.UserID != user.ID && !user.IsAdmin() {
		approved := make([]*models.CoPMember, 0, len(members))
		for _, m := range members {
			if m.Status == models.CoPMemberStatusApproved {
				approved = append(approved, m)
			}
		}
		members = approved
	}
	return c.JSON(members)
}

// ApproveCoPMember accepts a pending join request. Owner or admin only.
// Approval fails when the CoP is already at capacity.
func (s *Server) ApproveCoPMember(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	copID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	memberID, err := parseID(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	cop, err := s.copRepo.GetByID(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if cop == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("CoP를 찾을 수 없습니다."))
	}
	if cop.UserID != user.ID && !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("CoP 개설자만 가입을 승인할 수 있습니다."))
	}

	member, err := s.copRepo.GetMember(c.Context(), copID, memberID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if member == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("가입 신청을 찾을 수 없습니다."))
	}
	if member.Status == models.CoPMemberStatusApproved {
		return models.RespondWithError(c,
			models.NewConflictError("이미 승인된 회원입니다."))
	}

	count, err := s.copRepo.CountApprovedMembers(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if count >= int64(cop.MaxMembers) {
		return models.RespondWithError(c,
			models.NewConflictError("CoP 정원이 가득 찼습니다."))
	}

	member.Status = models.CoPMemberStatusApproved
	if err := s.copRepo.UpsertMember(c.Context(), member); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	if joined, err := s.userRepo.GetByID(c.Context(), memberID); err == nil && joined != nil {
		s.mailer.Notify(mailer.KindCoPMemberApproved, joined.Email, mailer.Payload{
			UserName: joined.Name,
			CoPName:  cop.Name,
		})
	}

	return c.JSON(member)
}
