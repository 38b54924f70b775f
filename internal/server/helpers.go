package server

import (
	"strconv"

	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("잘못된 ID 형식입니다.")
	}
	return uint(id), nil
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// optionalUserID returns the user ID for requests that passed OptionalAuth,
// or 0 for anonymous requests.
func optionalUserID(c *fiber.Ctx) uint {
	return currentUserID(c)
}

// requireUser loads the authenticated user's record. A valid token whose
// user no longer exists is treated as unauthenticated.
func (s *Server) requireUser(c *fiber.Ctx) (*models.User, error) {
	userID := currentUserID(c)
	if userID == 0 {
		return nil, models.NewAuthenticationError("로그인이 필요합니다.")
	}
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil {
		return nil, models.NewAuthenticationError("로그인이 필요합니다.")
	}
	return user, nil
}

// requireApproved loads the authenticated user and rejects members whose
// signup has not been approved yet.
func (s *Server) requireApproved(c *fiber.Ctx) (*models.User, error) {
	user, err := s.requireUser(c)
	if err != nil {
		return nil, err
	}
	if !user.IsApproved() {
		return nil, models.NewForbiddenError("승인된 회원만 이용할 수 있습니다.")
	}
	return user, nil
}

// AdminRequired allows only users with the admin role past this point.
func (s *Server) AdminRequired(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("관리자 권한이 필요합니다."))
	}
	c.Locals("currentUser", user)
	return c.Next()
}
