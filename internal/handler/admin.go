package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ksuzuki/todo-auth-api/internal/store"
)

// AdminHandler bundles dependencies for admin-only endpoints.
type AdminHandler struct {
	Users *store.UserStore
}

func NewAdminHandler(users *store.UserStore) *AdminHandler {
	return &AdminHandler{Users: users}
}

// ListUsers returns every account. Password hashes never serialize, so the
// full records are safe to return as-is.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users := h.Users.List()
	return c.JSON(http.StatusOK, echo.Map{
		"users": users,
		"count": len(users),
	})
}
