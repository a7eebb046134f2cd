package router // router wires handlers and middleware onto Echo route groups

import (
	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/auth"
	"github.com/1xev3/edev-backend/internal/handler"
	"github.com/1xev3/edev-backend/internal/middleware"
)

// RegisterRoutes registers routes shared by both services.  Currently that
// is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints on the user service.  The
// limiter (when non-nil) wraps the credential endpoints; /auth/me sits
// behind the JWT guard.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/auth/me", a.Me, middleware.JWTAuth(tokens))
}

// RegisterGroups registers the global group endpoints on the user service.
func RegisterGroups(e *echo.Echo, g *handler.GroupHandler) {
	e.GET("/groups", g.List)
	e.GET("/groups/:id", g.Get)
	e.PUT("/groups/:id", g.Update)
}

// RegisterTodo registers the owner-scoped section and task endpoints on the
// todo service.  Everything here sits behind the JWT guard: there is no
// unauthenticated access to resources.
func RegisterTodo(e *echo.Echo, s *handler.SectionHandler, t *handler.TaskHandler, tokens *auth.TokenService) {
	g := e.Group("/sections", middleware.JWTAuth(tokens))

	g.GET("", s.List)
	g.POST("", s.Create)
	g.GET("/:id", s.Get)
	g.PUT("/:id", s.Update)
	g.DELETE("/:id", s.Delete)

	g.GET("/:id/tasks", t.List)
	g.POST("/:id/tasks", t.Create)
	g.GET("/:id/tasks/:task_id", t.Get)
	g.PUT("/:id/tasks/:task_id", t.Update)
	g.DELETE("/:id/tasks/:task_id", t.Delete)
}
