package server

import (
	"fmt"
	"strings"

	"okai/internal/excel"
	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

type aiCaseRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Tools       string `json:"tools"`
	Background  string `json:"background"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// GetAICases lists AI use cases, newest first.
func (s *Server) GetAICases(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	cases, err := s.aiCaseRepo.List(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(cases)
}

// GetAICase returns a single AI use case.
func (s *Server) GetAICase(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	aiCase, err := s.aiCaseRepo.GetByID(c.Context(), caseID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if aiCase == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("활용사례를 찾을 수 없습니다."))
	}
	return c.JSON(aiCase)
}

// SaveAICase creates a new AI use case entry.
func (s *Server) SaveAICase(c *fiber.Ctx) error {
	var req aiCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return models.RespondWithError(c,
			models.NewValidationError("제목을 입력해주세요."))
	}

	aiCase := &models.AICase{
		Title:       req.Title,
		Content:     req.Content,
		Tools:       req.Tools,
		Background:  req.Background,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
	}
	if err := s.aiCaseRepo.Create(c.Context(), aiCase); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(aiCase)
}

// DeleteAICase removes an AI use case.
func (s *Server) DeleteAICase(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	aiCase, err := s.aiCaseRepo.GetByID(c.Context(), caseID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if aiCase == nil {
		return models.RespondWithError(c,
			models.NewNotFoundError("활용사례를 찾을 수 없습니다."))
	}

	if err := s.aiCaseRepo.Delete(c.Context(), caseID); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "활용사례가 삭제되었습니다."})
}

// UploadAICaseExcel imports AI use cases from an uploaded .xlsx workbook.
func (s *Server) UploadAICaseExcel(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("엑셀 파일을 첨부해주세요."))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	defer file.Close()

	rows, err := excel.ParseAICases(file)
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError(fmt.Sprintf("엑셀 파일을 읽을 수 없습니다: %v", err)))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for i, row := range rows {
		aiCase := &models.AICase{
			Title:       row.Title,
			Content:     row.Content,
			Tools:       row.Tools,
			Background:  row.Background,
			AuthorName:  row.AuthorName,
			AuthorEmail: row.AuthorEmail,
		}
		if err := s.aiCaseRepo.Create(c.Context(), aiCase); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				Row: i + 2, Error: "저장에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}
	return c.JSON(result)
}
