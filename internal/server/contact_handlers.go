package server

import (
	"strings"

	"okai/internal/mailer"
	"okai/internal/models"
	"okai/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact forwards a contact-form submission to the administrator by email.
// Open to anonymous visitors; rate limited at the route.
func (s *Server) Contact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Message == "" {
		return models.RespondWithError(c,
			models.NewValidationError("이름과 문의 내용을 입력해주세요."))
	}
	if req.Email != "" && !validation.ValidateEmail(req.Email) {
		return models.RespondWithError(c,
			models.NewValidationError("올바른 이메일 주소를 입력해주세요."))
	}
	if !s.config.MailEnabled() {
		return models.RespondWithError(c,
			models.NewConfigError("문의 메일 발송이 설정되지 않았습니다."))
	}

	s.mailer.Notify(mailer.KindContactForm, s.config.AdminEmail, mailer.Payload{
		UserName:  req.Name,
		UserEmail: req.Email,
		Message:   req.Message,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "문의가 접수되었습니다.",
	})
}
