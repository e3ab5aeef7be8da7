package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medazero01-art/scuderiarentals/internal/config"
	"github.com/medazero01-art/scuderiarentals/internal/repository"
	"github.com/medazero01-art/scuderiarentals/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

// registerReq carries the registration payload.  The validate tags express
// the contract: all fields required, a well-formed email address and a
// purely numeric phone number of 10 to 15 digits.
type registerReq struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,number,min=10,max=15"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResp returns the signed token alongside the public profile fields.
type loginResp struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register creates a user account.  Uniqueness of username, email and
// phone number is checked in that order and the first conflict wins.  On
// success only a confirmation is returned, never the credential.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Username == "" || req.Password == "" || req.Email == "" || req.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or phone number format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Users.Create(ctx, req.Username, req.Password, req.Email, req.PhoneNumber, h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrUsernameExists, repository.ErrEmailExists, repository.ErrPhoneExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered successfully"})
}

// Login verifies credentials and issues a signed access token.  Unknown
// username and wrong password are indistinguishable to the caller, which
// avoids account enumeration.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.TokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:       access.Token,
		Username:    u.Username,
		Role:        u.Role,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	})
}

// Me returns the caller's own profile, excluding the password hash.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"phoneNumber": u.PhoneNumber,
		"role":        u.Role,
		"createdAt":   u.CreatedAt,
	})
}
