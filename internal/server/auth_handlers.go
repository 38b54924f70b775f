package server

import (
	"strconv"
	"strings"
	"time"

	"okai/internal/mailer"
	"okai/internal/middleware"
	"okai/internal/models"
	"okai/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account in pending state. The account cannot use
// member-only features until an administrator approves it.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if !validation.ValidateEmail(req.Email) {
		return models.RespondWithError(c,
			models.NewValidationError("올바른 이메일 주소를 입력해주세요."))
	}
	if !validation.ValidatePassword(req.Password) {
		return models.RespondWithError(c,
			models.NewValidationError("비밀번호는 8자 이상이며 영문과 숫자를 포함해야 합니다."))
	}
	if !validation.ValidateName(req.Name) {
		return models.RespondWithError(c,
			models.NewValidationError("이름을 입력해주세요."))
	}

	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c,
			models.NewConflictError("이미 가입된 이메일입니다."))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Email:      req.Email,
		Password:   string(hashed),
		Name:       req.Name,
		Department: strings.TrimSpace(req.Department),
		Position:   strings.TrimSpace(req.Position),
		Status:     models.UserStatusPending,
		Role:       models.RoleMember,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	s.mailer.Notify(mailer.KindSignupPending, s.config.AdminEmail, mailer.Payload{
		UserName:  user.Name,
		UserEmail: user.Email,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "가입 신청이 접수되었습니다. 관리자 승인 후 이용할 수 있습니다.",
		"user":    user,
	})
}

// Login authenticates with email and password. Pending and rejected members
// can log in (so they can see their status) but member-only features stay
// gated until approval.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("요청 형식이 올바르지 않습니다."))
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	// Same message whether the account exists or the password is wrong.
	if user == nil {
		return models.RespondWithError(c,
			models.NewAuthenticationError("이메일 또는 비밀번호가 올바르지 않습니다."))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c,
			models.NewAuthenticationError("이메일 또는 비밀번호가 올바르지 않습니다."))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(tokenTTL),
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie. Stateless JWTs stay valid until expiry.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "로그아웃되었습니다."})
}

func (s *Server) generateToken(userID uint) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"jti": uuid.NewString(),
	})
	return token.SignedString([]byte(s.config.JWTSecret))
}
