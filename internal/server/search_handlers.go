package server

import (
	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Search runs a unified search across posts, published news and AI cases.
func (s *Server) Search(c *fiber.Ctx) error {
	results, err := s.searchService.Search(c.Context(), c.Query("q"))
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(results)
}
