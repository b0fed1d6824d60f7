package admin

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/galvan-ai/accounts/internal/account"
	"github.com/galvan-ai/accounts/internal/apperrors"
	"github.com/galvan-ai/accounts/internal/middleware"
)

// Handler exposes the admin user-management endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the admin handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type userResponse struct {
	ID                string `json:"id"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	MobileNumber      string `json:"mobileNumber"`
	IsActive          bool   `json:"isActive"`
	IsVerified        bool   `json:"isVerified"`
}

func toUserResponse(user account.User) userResponse {
	return userResponse{
		ID:                user.ID,
		ProfilePictureURL: user.ProfilePictureURL,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		MobileNumber:      user.MobileNumber,
		IsActive:          user.Active,
		IsVerified:        user.Verified,
	}
}

// ListUsers returns every user, newest first.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	users, err := h.svc.ListUsers(c.UserContext(), claims)
	if err != nil {
		return fiber.NewError(apperrors.Status(err), apperrors.Message(err))
	}
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return c.Status(http.StatusOK).JSON(out)
}

type createUserRequest struct {
	ProfilePictureURL string `json:"profilePictureUrl"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	MobileNumber      string `json:"mobileNumber"`
}

// CreateUser provisions a new unverified user and emails a verification code.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.svc.CreateUser(c.UserContext(), claims, CreateUserInput{
		Email:             req.Email,
		Password:          req.Password,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		MobileNumber:      req.MobileNumber,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return fiber.NewError(apperrors.Status(err), apperrors.Message(err))
	}
	return c.Status(http.StatusCreated).JSON(toUserResponse(user))
}

// GetUser fetches a single user by id.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	user, err := h.svc.GetUser(c.UserContext(), claims, c.Params("id"))
	if err != nil {
		return fiber.NewError(apperrors.Status(err), apperrors.Message(err))
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

type updateUserRequest struct {
	ProfilePictureURL *string `json:"profilePictureUrl"`
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	MobileNumber      *string `json:"mobileNumber"`
	IsActive          *bool   `json:"isActive"`
	IsVerified        *bool   `json:"isVerified"`
	Password          *string `json:"password"`
}

// UpdateUser applies a partial update; omitted fields keep their values.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.svc.UpdateUser(c.UserContext(), claims, c.Params("id"), UpdateUserInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		MobileNumber:      req.MobileNumber,
		ProfilePictureURL: req.ProfilePictureURL,
		Active:            req.IsActive,
		Verified:          req.IsVerified,
		Password:          req.Password,
	})
	if err != nil {
		return fiber.NewError(apperrors.Status(err), apperrors.Message(err))
	}
	return c.Status(http.StatusOK).JSON(toUserResponse(user))
}

// DeleteUser removes a user permanently.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authorization token required")
	}
	if err := h.svc.DeleteUser(c.UserContext(), claims, c.Params("id")); err != nil {
		return fiber.NewError(apperrors.Status(err), apperrors.Message(err))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Deleted"})
}
