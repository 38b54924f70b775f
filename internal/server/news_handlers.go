package server

import (
	"fmt"
	"time"

	"okai/internal/cache"
	"okai/internal/excel"
	"okai/internal/models"

	"github.com/gofiber/fiber/v2"
)

type publishNewsRequest struct {
	// IDs are crawled_news rows to promote, in display order.
	IDs []uint `json:"ids"`
}

type selectedNewsUpdate struct {
	ID           uint    `json:"id"`
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	ImageURL     *string `json:"image_url"`
	DisplayOrder *int    `json:"display_order"`
}

type bulkUpdateNewsRequest struct {
	Items []selectedNewsUpdate `json:"items"`
}

// GetSelectedNews lists the public news feed.
func (s *Server) GetSelectedNews(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	news, err := s.newsRepo.ListSelected(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(news)
}

// GetCrawledNews lists raw crawled articles for admin review.
func (s *Server) GetCrawledNews(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	news, err := s.newsRepo.ListCrawled(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	return c.JSON(news)
}

// SaveCrawledNews calls the crawler service and stores the articles it
// returns. Articles whose source URL is already stored are skipped.
func (s *Server) SaveCrawledNews(c *fiber.Ctx) error {
	articles, err := s.crawlerClient.Fetch(c.Context())
	if err != nil {
		return models.RespondWithError(c,
			models.NewUpstreamError("뉴스 수집에 실패했습니다. 잠시 후 다시 시도해주세요.", err))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for i, a := range articles {
		existing, err := s.newsRepo.GetCrawledBySourceURL(c.Context(), a.SourceURL)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				Row: i + 1, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if existing != nil {
			result.Skipped++
			continue
		}
		news := &models.CrawledNews{
			Title:       a.Title,
			Content:     a.Content,
			SourceURL:   a.SourceURL,
			SourceSite:  a.SourceSite,
			ImageURL:    a.ImageURL,
			PublishedAt: a.PublishedAt,
		}
		if err := s.newsRepo.CreateCrawled(c.Context(), news); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				Row: i + 1, Error: "저장에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}
	return c.JSON(result)
}

// PublishCrawledNews promotes crawled rows into the public feed and marks
// the sources as published. Already-published rows are skipped.
func (s *Server) PublishCrawledNews(c *fiber.Ctx) error {
	var req publishNewsRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("게시할 뉴스를 선택해주세요."))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for i, id := range req.IDs {
		crawled, err := s.newsRepo.GetCrawledByID(c.Context(), id)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if crawled == nil || crawled.IsPublished {
			result.Skipped++
			continue
		}

		crawledID := crawled.ID
		selected := &models.SelectedNews{
			Title:         crawled.Title,
			Content:       crawled.Content,
			SourceURL:     crawled.SourceURL,
			SourceSite:    crawled.SourceSite,
			ImageURL:      crawled.ImageURL,
			AuthorName:    crawled.AuthorName,
			PublishedAt:   crawled.PublishedAt,
			CrawledNewsID: &crawledID,
			DisplayOrder:  i,
		}
		if err := s.newsRepo.CreateSelected(c.Context(), selected); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "게시에 실패했습니다.",
			})
			continue
		}
		if err := s.newsRepo.SetPublished(c.Context(), crawled.ID, true); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "게시 상태 갱신에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}

	cache.InvalidateNewsList(c.Context())
	return c.JSON(result)
}

// DeleteSelectedNews removes feed entries. The backing crawled rows become
// publishable again.
func (s *Server) DeleteSelectedNews(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("삭제할 뉴스를 선택해주세요."))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for _, id := range req.IDs {
		existing, err := s.newsRepo.GetSelectedByID(c.Context(), id)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if existing == nil {
			result.Skipped++
			continue
		}
		if err := s.newsRepo.DeleteSelected(c.Context(), id); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: id, Error: "삭제에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}

	cache.InvalidateNewsList(c.Context())
	return c.JSON(result)
}

// BulkUpdateSelectedNews applies partial edits to multiple feed entries.
func (s *Server) BulkUpdateSelectedNews(c *fiber.Ctx) error {
	var req bulkUpdateNewsRequest
	if err := c.BodyParser(&req); err != nil || len(req.Items) == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("수정할 뉴스를 선택해주세요."))
	}

	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for _, item := range req.Items {
		existing, err := s.newsRepo.GetSelectedByID(c.Context(), item.ID)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: item.ID, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if existing == nil {
			result.Skipped++
			continue
		}

		if item.Title != nil && *item.Title != "" {
			existing.Title = *item.Title
		}
		if item.Content != nil {
			existing.Content = *item.Content
		}
		if item.ImageURL != nil {
			existing.ImageURL = *item.ImageURL
		}
		if item.DisplayOrder != nil {
			existing.DisplayOrder = *item.DisplayOrder
		}

		if err := s.newsRepo.UpdateSelected(c.Context(), existing); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				ID: item.ID, Error: "수정에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}

	cache.InvalidateNewsList(c.Context())
	return c.JSON(result)
}

// UploadNewsExcel imports crawled news rows from an uploaded .xlsx workbook.
// Duplicate source URLs are skipped exactly like crawler results.
func (s *Server) UploadNewsExcel(c *fiber.Ctx) error {
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

	rows, err := excel.ParseNews(file)
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError(fmt.Sprintf("엑셀 파일을 읽을 수 없습니다: %v", err)))
	}

	now := time.Now().Format(time.RFC3339)
	result := models.BatchResult{Errors: []models.BatchItemError{}}
	for i, row := range rows {
		existing, err := s.newsRepo.GetCrawledBySourceURL(c.Context(), row.SourceURL)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				Row: i + 2, Error: "조회에 실패했습니다.",
			})
			continue
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		publishedAt := row.PublishedAt
		if publishedAt == "" {
			publishedAt = now
		}
		news := &models.CrawledNews{
			Title:       row.Title,
			Content:     row.Content,
			SourceURL:   row.SourceURL,
			SourceSite:  row.SourceSite,
			ImageURL:    row.ImageURL,
			AuthorName:  row.AuthorName,
			PublishedAt: publishedAt,
		}
		if err := s.newsRepo.CreateCrawled(c.Context(), news); err != nil {
			result.Errors = append(result.Errors, models.BatchItemError{
				Row: i + 2, Error: "저장에 실패했습니다.",
			})
			continue
		}
		result.Succeeded++
	}
	return c.JSON(result)
}
