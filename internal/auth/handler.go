package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/galvan-ai/accounts/internal/apperrors"
	"github.com/galvan-ai/accounts/internal/middleware"
)

// Handler exposes the auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the auth handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}

// AdminLogin authenticates an admin and returns a token pair.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	pair, err := h.svc.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return fiber.NewError(http.StatusBadRequest, "invalid email format")
		}
		// Single outward message for every credential failure.
		return fiber.NewError(apperrors.Status(err), "invalid admin credentials")
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Role:         string(pair.Role),
	})
}

// UserLogin authenticates a user and returns a token pair.
func (h *Handler) UserLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	pair, err := h.svc.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, "invalid email format")
		case errors.Is(err, apperrors.ErrAccountUnverified):
			return fiber.NewError(http.StatusForbidden, "account not verified")
		default:
			return fiber.NewError(apperrors.Status(err), "invalid user credentials")
		}
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Role:         string(pair.Role),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh issues a new access token from a valid refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	access, err := h.svc.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(apperrors.Status(err), "invalid refresh token")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"accessToken": access})
}

// Logout revokes the caller's current token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	if err := h.svc.Logout(c.UserContext(), claims.ID); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "logout failed")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

// VerifyOTP consumes a verification code and activates the account.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.VerifyOTP(c.UserContext(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, "email and OTP code are required")
		case errors.Is(err, apperrors.ErrOtpNotFound):
			return fiber.NewError(http.StatusNotFound, "no verification code found for this email")
		case errors.Is(err, apperrors.ErrOtpExpired):
			return fiber.NewError(http.StatusBadRequest, "verification code has expired")
		case errors.Is(err, apperrors.ErrOtpMismatch):
			return fiber.NewError(http.StatusBadRequest, "invalid verification code")
		case errors.Is(err, apperrors.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "user not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, "verification failed")
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP verified successfully. User account is now verified."})
}

// CheckSession reports whether the presented access token is valid.
func (h *Handler) CheckSession(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"valid":   true,
		"user_id": claims.Subject,
		"role":    string(claims.Role),
	})
}

// Profile returns the authenticated user's own record.
func (h *Handler) Profile(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	user, err := h.svc.Profile(c.UserContext(), claims.Subject)
	if err != nil {
		return fiber.NewError(apperrors.Status(err), "user not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"id":                user.ID,
		"firstName":         user.FirstName,
		"lastName":          user.LastName,
		"email":             user.Email,
		"mobileNumber":      user.MobileNumber,
		"profilePictureUrl": user.ProfilePictureURL,
		"isActive":          user.Active,
		"isVerified":        user.Verified,
		"createdAt":         user.CreatedAt,
	})
}
