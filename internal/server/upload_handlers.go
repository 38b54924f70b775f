package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10 MiB

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadFile stores a general attachment and returns its public URL.
func (s *Server) UploadFile(c *fiber.Ctx) error {
	return s.saveUpload(c, allowedUploadExts)
}

// UploadPostImage stores an image for embedding in a post body.
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	return s.saveUpload(c, allowedImageExts)
}

func (s *Server) saveUpload(c *fiber.Ctx, allowed map[string]bool) error {
	if _, err := s.requireApproved(c); err != nil {
		return models.RespondWithError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("파일을 첨부해주세요."))
	}
	if fileHeader.Size > maxUploadSize {
		return models.RespondWithError(c,
			models.NewValidationError("파일 크기는 10MB를 초과할 수 없습니다."))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowed[ext] {
		return models.RespondWithError(c,
			models.NewValidationError("허용되지 않는 파일 형식입니다."))
	}

	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	// Random name prevents collisions and path traversal via the original name.
	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	dest := filepath.Join(s.config.UploadDir, name)
	if err := c.SaveFile(fileHeader, dest); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":      "/uploads/" + name,
		"filename": fileHeader.Filename,
		"size":     fileHeader.Size,
	})
}
