package server

import (
	"strings"

	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// GetComments lists a post's comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), postID, 0)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("게시글을 찾을 수 없습니다."))
	}

	comments, err := s.commentRepo.ListByPost(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(comments)
}

// CreateComment adds a comment to a post. A parent_id, when given, must
// reference a comment on the same post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
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

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c,
			models.NewValidationError("댓글 내용을 입력해주세요."))
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(c.Context(), *req.ParentID)
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		if parent == nil || parent.PostID != postID {
			return models.RespondWithError(c,
				models.NewValidationError("답글 대상 댓글을 찾을 수 없습니다."))
		}
	}

	comment := &models.Comment{
		Content:  req.Content,
		PostID:   postID,
		UserID:   user.ID,
		ParentID: req.ParentID,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	created, err := s.commentRepo.GetByID(c.Context(), comment.ID)
	if err != nil || created == nil {
		return c.Status(fiber.StatusCreated).JSON(comment)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateComment edits a comment's content. Author or admin only.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if comment == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("댓글을 찾을 수 없습니다."))
	}
	if comment.UserID != user.ID && !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("본인이 작성한 댓글만 수정할 수 있습니다."))
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c,
			models.NewValidationError("댓글 내용을 입력해주세요."))
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(c.Context(), comment); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment. Author or admin only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	user, err := s.requireApproved(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if comment == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("댓글을 찾을 수 없습니다."))
	}
	if comment.UserID != user.ID && !user.IsAdmin() {
		return models.RespondWithError(c,
			models.NewForbiddenError("본인이 작성한 댓글만 삭제할 수 있습니다."))
	}

	if err := s.commentRepo.Delete(c.Context(), commentID); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "댓글이 삭제되었습니다."})
}
