package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"okai/internal/config"
	"okai/internal/database"
	"okai/internal/mailer"
	"okai/internal/middleware"
	"okai/internal/models"
	"okai/internal/repository"
	"okai/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sentMail records one dispatched notification for assertions.
type sentMail struct {
	To      string
	Subject string
	Body    string
}

func testConfig() *config.Config {
	return &config.Config{
		Env:          "test",
		Port:         "0",
		JWTSecret:    "test-secret",
		AdminEmail:   "admin@example.com",
		SMTPHost:     "localhost",
		SMTPPort:     25,
		SMTPFrom:     "noreply@example.com",
		SMTPUsername: "user",
		SMTPPassword: "pass",
		SiteBaseURL:  "http://localhost:3000",
		UploadDir:    "uploads",
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// newTestServer builds a Server against in-memory sqlite with a capturing
// mailer. The returned channel receives every dispatched notification.
func newTestServer(t *testing.T) (*Server, *gorm.DB, chan sentMail) {
	t.Helper()
	db := setupTestDB(t)
	cfg := testConfig()

	m := mailer.New(cfg, middleware.Logger)
	sent := make(chan sentMail, 16)
	m.SetSendFunc(func(to, subject, htmlBody string) error {
		sent <- sentMail{To: to, Subject: subject, Body: htmlBody}
		return nil
	})

	postRepo := repository.NewPostRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	aiCaseRepo := repository.NewAICaseRepository(db)

	s := &Server{
		config:        cfg,
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		postRepo:      postRepo,
		commentRepo:   repository.NewCommentRepository(db),
		copRepo:       repository.NewCoPRepository(db),
		newsRepo:      newsRepo,
		aiCaseRepo:    aiCaseRepo,
		greetingRepo:  repository.NewGreetingRepository(db),
		searchService: service.NewSearchService(postRepo, newsRepo, aiCaseRepo),
		mailer:        m,
	}
	return s, db, sent
}

func createTestUser(t *testing.T, db *gorm.DB, email string, status models.UserStatus, role models.UserRole) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     "Test User",
		Status:   status,
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// authedApp returns a Fiber app that injects userID like AuthRequired would.
func authedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	return app
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
