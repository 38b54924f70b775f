package server

import (
	"fmt"
	"strings"

	"okai/internal/mailer"
	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

type adminUpdateUserRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Role       *string `json:"role"`
	Status     *string `json:"status"`
}

type adminUpdateCoPRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxMembers  *int    `json:"max_members"`
	Status      *string `json:"status"`
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// AdminGetUsers lists users, optionally filtered by approval status.
func (s *Server) AdminGetUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	status := models.UserStatus(c.Query("status"))

	users, err := s.userRepo.List(c.Context(), status, limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(users)
}

// AdminApproveUser grants membership to a pending signup.
func (s *Server) AdminApproveUser(c *fiber.Ctx) error {
	return s.adminSetUserStatus(c, models.UserStatusApproved)
}

// AdminRejectUser declines a signup.
func (s *Server) AdminRejectUser(c *fiber.Ctx) error {
	return s.adminSetUserStatus(c, models.UserStatusRejected)
}

func (s *Server) adminSetUserStatus(c *fiber.Ctx, status models.UserStatus) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	target, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if target == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("사용자를 찾을 수 없습니다."))
	}
	if target.Status == status {
		return models.RespondWithError(c,
			models.NewConflictError("이미 처리된 사용자입니다."))
	}

	updated, err := s.userRepo.UpdateStatus(c.Context(), userID, status)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(updated)
}

// AdminUpdateUser applies partial updates to any user record, including
// role and status.
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	target, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if target == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("사용자를 찾을 수 없습니다."))
	}

	var req adminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		target.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		target.Position = strings.TrimSpace(*req.Position)
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		if role != models.RoleMember && role != models.RoleAdmin {
			return models.RespondWithError(c,
				models.NewValidationError("잘못된 역할입니다."))
		}
		target.Role = role
	}
	if req.Status != nil {
		status := models.UserStatus(*req.Status)
		switch status {
		case models.UserStatusPending, models.UserStatusApproved, models.UserStatusRejected:
			target.Status = status
		default:
			return models.RespondWithError(c,
				models.NewValidationError("잘못된 상태값입니다."))
		}
	}

	if err := s.userRepo.Update(c.Context(), target); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(target)
}

// AdminDeleteUsers removes users in bulk. Failures are collected per item;
// the caller's own account is always skipped.
func (s *Server) AdminDeleteUsers(c *fiber.Ctx) error {
	admin, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return models.RespondWithError(c,
			models.NewAuthenticationError("로그인이 필요합니다."))
	}

	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("삭제할 대상을 선택해주세요."))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for _, id := range req.IDs {
		if id == admin.ID {
			result.Skipped++
			continue
		}
		target, err := s.userRepo.GetByID(c.Context(), id)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if target == nil {
			result.Skipped++
			continue
		}
		if err := s.userRepo.Delete(c.Context(), id); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "삭제에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}
	return c.JSON(result)
}

type copDecisionRequest struct {
	Status string `json:"status"`
}

// AdminApproveCoP resolves a pending CoP application. The request body
// carries the decision, approved or rejected; the creator is notified by
// email only when the CoP is approved.
func (s *Server) AdminApproveCoP(c *fiber.Ctx) error {
	copID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req copDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	decision := models.CoPStatus(req.Status)
	if decision != models.CoPStatusApproved && decision != models.CoPStatusRejected {
		return models.RespondWithError(c,
			models.NewValidationError("상태는 approved 또는 rejected여야 합니다."))
	}

	cop, err := s.copRepo.GetByID(c.Context(), copID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if cop == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("CoP를 찾을 수 없습니다."))
	}
	if cop.Status != models.CoPStatusPending {
		return models.RespondWithError(c, models.NewConflictError(
			fmt.Sprintf("대기 상태의 CoP만 처리할 수 있습니다. (현재 상태: %s)", cop.Status)))
	}

	updated, err := s.copRepo.UpdateStatus(c.Context(), copID, decision)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	if decision == models.CoPStatusApproved {
		if owner, err := s.userRepo.GetByID(c.Context(), cop.UserID); err == nil && owner != nil {
			s.mailer.Notify(mailer.KindCoPApproved, owner.Email, mailer.Payload{
				UserName: owner.Name,
				CoPName:  cop.Name,
			})
		}
	}
	return c.JSON(updated)
}

// AdminUpdateCoP applies partial updates to any CoP, including status.
func (s *Server) AdminUpdateCoP(c *fiber.Ctx) error {
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

	var req adminUpdateCoPRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		cop.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		cop.Description = *req.Description
	}
	if req.MaxMembers != nil && *req.MaxMembers > 0 {
		cop.MaxMembers = *req.MaxMembers
	}
	if req.Status != nil {
		status := models.CoPStatus(*req.Status)
		switch status {
		case models.CoPStatusPending, models.CoPStatusApproved, models.CoPStatusRejected:
			cop.Status = status
		default:
			return models.RespondWithError(c,
				models.NewValidationError("잘못된 상태값입니다."))
		}
	}

	if err := s.copRepo.Update(c.Context(), cop); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(cop)
}

// AdminDeleteCoPs removes CoPs in bulk, memberships included.
func (s *Server) AdminDeleteCoPs(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("삭제할 대상을 선택해주세요."))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for _, id := range req.IDs {
		cop, err := s.copRepo.GetByID(c.Context(), id)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if cop == nil {
			result.Skipped++
			continue
		}
		if err := s.copRepo.Delete(c.Context(), id); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "삭제에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}
	return c.JSON(result)
}
