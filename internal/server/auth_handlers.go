package server

import (
	"errors"
	"strconv"
	"time"

	"devconnector/internal/gravatar"
	"devconnector/internal/models"
	"devconnector/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tokenTTL is the fixed token lifetime: 100 hours from issuance.
const tokenTTL = 100 * time.Hour

// Register handles POST /api/users.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().
		Require("name", req.Name, "Name is required.").
		Email("email", req.Email, "Please enter a valid email.").
		MinLength("password", req.Password, 6, "Please enter a password with min length of 6 characters.")
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	if existing != nil {
		// Deliberately field-less to avoid account enumeration detail.
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "User already exists."}})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondServerError(c, err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   gravatar.URL(req.Email),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		// Two registrations can race past the lookup above; the unique
		// email index decides the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.RespondValidationErrors(c, []models.FieldError{{Msg: "User already exists."}})
		}
		return models.RespondServerError(c, err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

// Login handles POST /api/auth.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid request body"}})
	}

	v := validation.New().
		Email("email", req.Email, "Please enter a valid email.").
		Require("password", req.Password, "Password is required.")
	if !v.Valid() {
		return models.RespondValidationErrors(c, v.Errors())
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondServerError(c, err)
	}
	// Unknown email and wrong password produce the identical body so the
	// response never reveals which one was wrong.
	if user == nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid Credentials."}})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondValidationErrors(c, []models.FieldError{{Msg: "Invalid Credentials."}})
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return models.RespondServerError(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

// CurrentUser handles GET /api/auth, returning the acting user without the
// password hash.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		// The token can outlive the account it was issued for.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondMsg(c, fiber.StatusUnauthorized, "Token is not valid")
		}
		return models.RespondServerError(c, err)
	}
	return c.JSON(user)
}

// issueToken creates a signed identity token for the given user ID. The
// payload carries only the user id; name and email would go stale on edit.
func (s *Server) issueToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
