package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/galvan-ai/accounts/internal/admin"
)

// RegisterAdminRoutes wires the admin user-management endpoints. All of
// them require a valid access token; the admin role is enforced inside
// the service so the gate cannot be bypassed by route wiring mistakes.
func RegisterAdminRoutes(r fiber.Router, h *admin.Handler, jwtAuth fiber.Handler) {
	grp := r.Group("/admin", jwtAuth)

	grp.Get("/users", h.ListUsers)
	grp.Post("/users", h.CreateUser)
	grp.Get("/users/:id", h.GetUser)
	grp.Put("/users/:id", h.UpdateUser)
	grp.Delete("/users/:id", h.DeleteUser)
}
