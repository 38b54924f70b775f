package server

import (
	"strings"

	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls"`
}

// GetPosts lists posts, newest first. Anonymous callers see liked=false.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.postRepo.List(c.Context(), limit, offset, optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(posts)
}

// GetPost returns a single post with its computed counters.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID, optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("게시글을 찾을 수 없습니다."))
	}
	return c.JSON(post)
}

// CreatePost creates a post. Approved members only.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c,
			models.NewValidationError("제목과 내용을 입력해주세요."))
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  user.ID,
	}
	post.SetImageURLs(req.ImageURLs)

	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	created, err := s.postRepo.GetByID(c.Context(), post.ID, user.ID)
	if err != nil || created == nil {
		return c.Status(fiber.StatusCreated).JSON(post)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdatePost edits a post. Only the author or an admin may edit; a missing
// post is 404, someone else's post is 403.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID, user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("게시글을 찾을 수 없습니다."))
	}
	if post.UserID != user.ID && !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("본인이 작성한 게시글만 수정할 수 있습니다."))
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c,
			models.NewValidationError("제목과 내용을 입력해주세요."))
	}

	post.Title = req.Title
	post.Content = req.Content
	post.SetImageURLs(req.ImageURLs)

	if err := s.postRepo.Update(c.Context(), post); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(post)
}

// DeletePost removes a post. Author or admin only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID, user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("게시글을 찾을 수 없습니다."))
	}
	if post.UserID != user.ID && !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("본인이 작성한 게시글만 삭제할 수 있습니다."))
	}

	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "게시글이 삭제되었습니다."})
}

// ToggleLike flips the caller's like on a post and returns the new state.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID, user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("게시글을 찾을 수 없습니다."))
	}

	liked, count, err := s.postRepo.ToggleLike(c.Context(), user.ID, postID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{
		"liked":       liked,
		"likes_count": count,
	})
}
