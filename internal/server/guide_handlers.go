package server

import (
	"strings"

	"okai/internal/cache"
	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

// guideSlug addresses the member guide page in the greetings table.
const guideSlug = "guide"

type guideRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GetGuide returns the member guide page content.
func (s *Server) GetGuide(c *fiber.Ctx) error {
	greeting, err := s.greetingRepo.GetBySlug(c.Context(), guideSlug)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if greeting == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("안내 페이지가 아직 등록되지 않았습니다."))
	}
	return c.JSON(greeting)
}

// UpdateGuide replaces the member guide content. Admin only.
func (s *Server) UpdateGuide(c *fiber.Ctx) error {
	admin, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return models.RespondWithError(c,
			models.NewAuthenticationError("로그인이 필요합니다."))
	}

	var req guideRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c,
			models.NewValidationError("내용을 입력해주세요."))
	}

	adminID := admin.ID
	greeting := &models.Greeting{
		Slug:            guideSlug,
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		UpdatedByUserID: &adminID,
	}
	if err := s.greetingRepo.Upsert(c.Context(), greeting); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	cache.Invalidate(c.Context(), cache.GreetingKey(guideSlug))
	return c.JSON(greeting)
}
