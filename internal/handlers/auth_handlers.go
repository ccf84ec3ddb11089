package handlers

import (
	"errors"
	"log"
	"net/http"

	"invoicely/internal/common"
	"invoicely/internal/models"
	"invoicely/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration, login and profile reads.
type AuthHandlers struct {
	authService *services.AuthService
}

func NewAuthHandlers(authService *services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return common.SendValidationError(c, "Email, password, and name are required")
	}

	result, err := h.authService.Register(ctx, req.Email, req.Password, req.Name, req.CompanyName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			return common.SendValidationError(c, "Email, password, and name are required")
		case errors.Is(err, common.ErrDuplicateEmail):
			return common.SendError(c, http.StatusBadRequest, "User already exists")
		default:
			log.Printf("register failed for %s: %v", req.Email, err)
			return common.SendServerError(c, "Failed to create user")
		}
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "Email and password are required")
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			return common.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, common.ErrValidation):
			return common.SendValidationError(c, "Email and password are required")
		default:
			log.Printf("login failed for %s: %v", req.Email, err)
			return common.SendServerError(c, "Database error")
		}
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// Profile handles GET /api/user/profile.
func (h *AuthHandlers) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentity(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "Access token required")
	}

	user, err := h.authService.GetProfile(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendError(c, http.StatusNotFound, "User not found")
		}
		log.Printf("profile lookup failed for %s: %v", identity.UserID, err)
		return common.SendServerError(c, "Database error")
	}

	return c.JSON(http.StatusOK, user)
}
