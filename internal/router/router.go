package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ksuzuki/todo-auth-api/internal/auth"
	"github.com/ksuzuki/todo-auth-api/internal/config"
	"github.com/ksuzuki/todo-auth-api/internal/handler"
	"github.com/ksuzuki/todo-auth-api/internal/middleware"
	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// RegisterRoutes registers the unauthenticated system routes: the health
// check and the JSON 404 fallback.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":         "endpoint not found",
			"requested_url": c.Request().URL.Path,
			"method":        c.Request().Method,
		})
	})
}

// RegisterAuth registers the authentication endpoints. The credential
// endpoints (register/login) sit behind the strict rate-limit bucket on
// top of the general one; session management and profile routes require a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService, rdb *redis.Client) {
	general := middleware.NewRateLimit(config.LoadGeneralRateLimit(), rdb)
	strict := middleware.NewRateLimit(config.LoadAuthRateLimit(), rdb)

	g := e.Group("/api/auth", general)
	g.POST("/register", a.Register, strict)
	g.POST("/login", a.Login, strict)
	g.POST("/refresh", a.Refresh)

	protected := e.Group("/api/auth", general, middleware.JWTAuth(tokens))
	protected.POST("/logout", a.Logout)
	protected.POST("/logout-all", a.LogoutAll)
	protected.GET("/profile", a.Profile)

	api := e.Group("/api", general, middleware.JWTAuth(tokens))
	api.GET("/user/info", a.UserInfo, middleware.RequireRole(model.RoleUser))
}

// RegisterTodos registers the todo CRUD endpoints. Every route requires a
// valid access token; ownership scoping happens inside the handlers.
func RegisterTodos(e *echo.Echo, t *handler.TodoHandler, tokens *auth.TokenService, rdb *redis.Client) {
	general := middleware.NewRateLimit(config.LoadGeneralRateLimit(), rdb)

	g := e.Group("/api/todos", general, middleware.JWTAuth(tokens))
	g.GET("", t.List)
	g.GET("/stats", t.Stats)
	g.POST("", t.Create)
	g.GET("/:id", t.Get)
	g.PUT("/:id", t.Update)
	g.DELETE("/:id", t.Delete)
}

// RegisterAdmin registers the admin-only endpoints behind the admin role
// gate.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, tokens *auth.TokenService, rdb *redis.Client) {
	general := middleware.NewRateLimit(config.LoadGeneralRateLimit(), rdb)

	g := e.Group("/api/admin", general, middleware.JWTAuth(tokens), middleware.RequireRole(model.RoleAdmin))
	g.GET("/users", a.ListUsers)
}
