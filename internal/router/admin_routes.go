package router

import (
	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/handler"
	"github.com/virasat-labs/heritage-archive/internal/middleware"
	"github.com/virasat-labs/heritage-archive/internal/utils"
)

// RegisterAdmin registers the moderation console.  Login is open; every
// other route requires the role-only admin token issued by it.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	e.POST("/api/admin/login", a.Login)

	g := e.Group("/api/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(utils.RoleAdmin))

	// Review queue.
	g.GET("/submissions", a.ListSubmissions)
	g.GET("/submissions/:id", a.GetSubmission)
	g.PATCH("/submissions/:id/approve", a.Approve)
	g.PATCH("/submissions/:id/reject", a.Reject)
	g.DELETE("/submissions/:id", a.DeleteSubmission)

	// Contributor roster.
	g.GET("/users", a.ListUsers)
	g.DELETE("/users/:id", a.DeleteUser)

	// Published copies.
	g.GET("/approved", a.ListApproved)
	g.DELETE("/approved/:id", a.DeleteApproved)
}
