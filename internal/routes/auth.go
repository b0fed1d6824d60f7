package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/galvan-ai/accounts/internal/auth"
)

// RegisterAuthRoutes wires the authentication endpoints. Login routes sit
// behind the rate limiter; logout, session check and profile require a
// valid access token.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimit, jwtAuth fiber.Handler) {
	grp := r.Group("/auth")

	grp.Post("/admin-login", rateLimit, h.AdminLogin)
	grp.Post("/user-login", rateLimit, h.UserLogin)
	grp.Post("/refresh", h.Refresh)
	grp.Post("/verify-otp", h.VerifyOTP)

	grp.Post("/logout", jwtAuth, h.Logout)
	grp.Get("/check", jwtAuth, h.CheckSession)
	grp.Get("/profile", jwtAuth, h.Profile)
}
