package router

import (
	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/handler"
	"github.com/virasat-labs/heritage-archive/internal/middleware"
	"github.com/virasat-labs/heritage-archive/internal/utils"
)

// RegisterAuth registers the credential endpoints and the authenticated
// profile routes.  The rate limiter guards the three credential
// endpoints, which are the only ones worth brute-forcing; pass nil to
// skip limiting.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	if limiter != nil {
		g.POST("/register", a.Register, limiter)
		g.POST("/login", a.Login, limiter)
		g.POST("/forgot-password", a.ForgotPassword, limiter)
	} else {
		g.POST("/register", a.Register)
		g.POST("/login", a.Login)
		g.POST("/forgot-password", a.ForgotPassword)
	}
	g.POST("/reset-password", a.ResetPassword)

	// Profile routes require a contributor token.
	me := e.Group("/api/auth")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.Use(middleware.RequireRole(utils.RoleUser))
	me.GET("/me", a.Me)
	me.DELETE("/me", a.DeleteMe)
}

// RegisterUser registers the contributor-facing routes: submission CRUD,
// uploads, collaboration requests and the chat websocket.  Everything
// here requires a contributor token.
func RegisterUser(e *echo.Echo, s *handler.SubmissionHandler, up *handler.UploadHandler,
	col *handler.CollaborationHandler, ch *handler.ChatHandler, jwtSecret string) {

	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(utils.RoleUser))

	// Submission CRUD.  The public listing at GET /api/submissions is
	// registered separately without auth; these are the owner-scoped
	// operations.
	g.POST("/submissions", s.Create)
	g.GET("/submissions/mine", s.ListMine)
	g.PATCH("/submissions/:id", s.Update)
	g.DELETE("/submissions/:id", s.Delete)

	// Media and consent-proof uploads.
	g.POST("/uploads", up.Upload)
	g.DELETE("/uploads", up.Delete)

	// Collaboration handshake.
	g.POST("/collab/requests", col.Create)
	g.GET("/collab/requests", col.List)
	g.PATCH("/collab/requests/:id/accept", col.Accept)
	g.PATCH("/collab/requests/:id/reject", col.Reject)

	// Chat websocket; the accepted-collaboration gate lives in the handler.
	g.GET("/chat/ws", ch.Connect)
}
