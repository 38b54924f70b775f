package server

import (
	"strings"

	"okai/internal/models"
	"okai/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Password   *string `json:"password"`
}

// GetMyProfile returns the authenticated user's record.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile applies partial updates to the caller's own profile.
// Email, status and role are not editable here.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !validation.ValidateName(name) {
			return models.RespondWithError(c,
				models.NewValidationError("이름을 입력해주세요."))
		}
		user.Name = name
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		user.Position = strings.TrimSpace(*req.Position)
	}
	if req.Password != nil {
		if !validation.ValidatePassword(*req.Password) {
			return models.RespondWithError(c,
				models.NewValidationError("비밀번호는 8자 이상이며 영문과 숫자를 포함해야 합니다."))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(user)
}

// GetUserPosts lists a user's posts, newest first.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
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

	limit, offset := parsePagination(c)
	posts, err := s.postRepo.GetByUserID(c.Context(), userID, limit, offset, optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(posts)
}
