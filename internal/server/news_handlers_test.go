package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"okai/internal/crawler"
	"okai/internal/middleware"
	"okai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishCrawledNewsMarksSource(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin@example.com", models.UserStatusApproved, models.RoleAdmin)

	crawled := &models.CrawledNews{
		Title:     "AI 뉴스",
		Content:   "요약",
		SourceURL: "https://news.example.com/1",
	}
	require.NoError(t, db.Create(crawled).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/crawled-news/publish", s.PublishCrawledNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/crawled-news/publish", map[string]any{
		"ids": []uint{crawled.ID},
	}))
	require.NoError(t, err)

	var result models.BatchResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Succeeded)

	var selected models.SelectedNews
	require.NoError(t, db.First(&selected).Error)
	assert.Equal(t, "AI 뉴스", selected.Title)
	require.NotNil(t, selected.CrawledNewsID)
	assert.Equal(t, crawled.ID, *selected.CrawledNewsID)

	var source models.CrawledNews
	require.NoError(t, db.First(&source, crawled.ID).Error)
	assert.True(t, source.IsPublished)
}

func TestPublishAlreadyPublishedSkips(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin2@example.com", models.UserStatusApproved, models.RoleAdmin)

	crawled := &models.CrawledNews{
		Title:       "이미 게시됨",
		SourceURL:   "https://news.example.com/2",
		IsPublished: true,
	}
	require.NoError(t, db.Create(crawled).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/crawled-news/publish", s.PublishCrawledNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/crawled-news/publish", map[string]any{
		"ids": []uint{crawled.ID},
	}))
	require.NoError(t, err)

	var result models.BatchResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
}

func TestDeleteSelectedNewsResetsSourceFlag(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin3@example.com", models.UserStatusApproved, models.RoleAdmin)

	crawled := &models.CrawledNews{
		Title:       "원본",
		SourceURL:   "https://news.example.com/3",
		IsPublished: true,
	}
	require.NoError(t, db.Create(crawled).Error)
	crawledID := crawled.ID
	selected := &models.SelectedNews{
		Title:         "게시본",
		SourceURL:     crawled.SourceURL,
		CrawledNewsID: &crawledID,
	}
	require.NoError(t, db.Create(selected).Error)

	app := adminApp(s, admin.ID)
	app.Delete("/api/selected-news", s.DeleteSelectedNews)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/selected-news", map[string]any{
		"ids": []uint{selected.ID},
	}))
	require.NoError(t, err)

	var result models.BatchResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Succeeded)

	var selectedCount int64
	db.Model(&models.SelectedNews{}).Count(&selectedCount)
	assert.Zero(t, selectedCount)

	// The source article becomes publishable again.
	var source models.CrawledNews
	require.NoError(t, db.First(&source, crawled.ID).Error)
	assert.False(t, source.IsPublished)
}

func TestSaveCrawledNewsDeduplicatesBySourceURL(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin4@example.com", models.UserStatusApproved, models.RoleAdmin)

	// Fake crawler service returning two articles, one already stored.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"articles": [
				{"title": "새 기사", "content": "본문", "sourceUrl": "https://news.example.com/new", "sourceSite": "네이버 뉴스", "publishedAt": "2025-01-01T00:00:00Z"},
				{"title": "기존 기사", "content": "본문", "sourceUrl": "https://news.example.com/old", "sourceSite": "네이버 뉴스", "publishedAt": "2025-01-01T00:00:00Z"}
			]
		}`))
	}))
	defer ts.Close()
	s.crawlerClient = crawler.NewClient(ts.URL, middleware.Logger)

	require.NoError(t, db.Create(&models.CrawledNews{
		Title:     "기존 기사",
		SourceURL: "https://news.example.com/old",
	}).Error)

	app := adminApp(s, admin.ID)
	app.Post("/api/crawled-news/save", s.SaveCrawledNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/crawled-news/save", nil))
	require.NoError(t, err)

	var result models.BatchResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)

	var count int64
	db.Model(&models.CrawledNews{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSaveCrawledNewsUpstreamFailure(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin5@example.com", models.UserStatusApproved, models.RoleAdmin)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success": false, "error": "page structure not ready"}`))
	}))
	defer ts.Close()
	s.crawlerClient = crawler.NewClient(ts.URL, middleware.Logger)

	app := adminApp(s, admin.ID)
	app.Post("/api/crawled-news/save", s.SaveCrawledNews)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/crawled-news/save", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetSelectedNewsOrdering(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	require.NoError(t, db.Create(&models.SelectedNews{
		Title: "둘째", SourceURL: "https://n.example.com/2", DisplayOrder: 1,
	}).Error)
	require.NoError(t, db.Create(&models.SelectedNews{
		Title: "첫째", SourceURL: "https://n.example.com/1", DisplayOrder: 0,
	}).Error)

	app := authedApp(0)
	app.Get("/api/news", s.GetSelectedNews)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/news", nil))
	require.NoError(t, err)

	var news []models.SelectedNews
	decodeBody(t, resp, &news)
	require.Len(t, news, 2)
	assert.Equal(t, "첫째", news[0].Title)
}
