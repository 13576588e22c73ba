package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ksuzuki/todo-auth-api/internal/middleware"
	"github.com/ksuzuki/todo-auth-api/internal/model"
	"github.com/ksuzuki/todo-auth-api/internal/query"
	"github.com/ksuzuki/todo-auth-api/internal/store"
)

// TodoHandler bundles dependencies for the todo endpoints. The store may
// be the in-memory implementation or the SQLite one; the handler does not
// care which.
type TodoHandler struct {
	Todos store.TodoStore
}

func NewTodoHandler(todos store.TodoStore) *TodoHandler {
	return &TodoHandler{Todos: todos}
}

// ----- DTOs -----

type createTodoReq struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority"`
	Category  string `json:"category"`
}

type updateTodoReq struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
	Category  *string `json:"category"`
}

type todoListData struct {
	Todos      []model.Todo `json:"todos"`
	Pagination query.Page   `json:"pagination"`
}

// envelope is the response shape shared by all todo endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func caller(c echo.Context) (uint64, model.Role) {
	userID, _ := c.Get(middleware.CtxUserID).(uint64)
	role, _ := c.Get(middleware.CtxRole).(model.Role)
	return userID, role
}

func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Error: msg})
}

func serverError(c echo.Context, op string, err error) error {
	c.Logger().Errorf("%s: %v", op, err)
	return fail(c, http.StatusInternalServerError, "server error occurred")
}

// List returns the caller's todos after filtering, sorting and pagination.
// Admins see every record and may narrow by the user_id query parameter;
// other callers are always scoped to their own records.
func (h *TodoHandler) List(c echo.Context) error {
	userID, role := caller(c)

	criteria := query.Criteria{
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		Priority:  c.QueryParam("priority"),
		Completed: c.QueryParam("completed"),
		OwnerID:   userID,
	}
	if role == model.RoleAdmin {
		criteria.OwnerID = 0
		if v := c.QueryParam("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fail(c, http.StatusBadRequest, "user_id must be a positive integer")
			}
			criteria.OwnerID = id
		}
	}

	page, limit := 1, 10
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "page and limit must be positive integers")
		}
		page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "page and limit must be positive integers")
		}
		limit = n
	}

	sortField := c.QueryParam("sort")
	if sortField == "" {
		sortField = "createdAt"
	}
	order := c.QueryParam("order")
	if order == "" {
		order = "asc"
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	all, err := h.Todos.List(ctx)
	if err != nil {
		return serverError(c, "list todos", err)
	}

	filtered := query.Filter(all, criteria)
	sorted := query.Sort(filtered, sortField, order)
	items, meta, err := query.Paginate(sorted, page, limit)
	if err != nil {
		return fail(c, http.StatusBadRequest, "page and limit must be positive integers")
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    todoListData{Todos: items, Pagination: meta},
		Message: strconv.Itoa(meta.Total) + " todos retrieved",
	})
}

// Stats reports aggregate counts over the todos visible to the caller.
func (h *TodoHandler) Stats(c echo.Context) error {
	userID, role := caller(c)

	ctx, cancel := storeCtx(c)
	defer cancel()
	all, err := h.Todos.List(ctx)
	if err != nil {
		return serverError(c, "todo stats", err)
	}
	if role != model.RoleAdmin {
		all = query.Filter(all, query.Criteria{OwnerID: userID})
	}

	completed := 0
	breakdown := map[model.Priority]int{
		model.PriorityLow:    0,
		model.PriorityMedium: 0,
		model.PriorityHigh:   0,
	}
	for _, t := range all {
		if t.Completed {
			completed++
		}
		breakdown[t.Priority]++
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: echo.Map{
			"total":              len(all),
			"completed":          completed,
			"pending":            len(all) - completed,
			"priority_breakdown": breakdown,
		},
	})
}

// fetchOwned loads a todo and enforces ownership: non-admin callers may
// only touch their own records.
func (h *TodoHandler) fetchOwned(c echo.Context) (model.Todo, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		_ = fail(c, http.StatusBadRequest, "invalid todo id")
		return model.Todo{}, false
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	t, ok, err := h.Todos.Get(ctx, id)
	if err != nil {
		_ = serverError(c, "get todo", err)
		return model.Todo{}, false
	}
	if !ok {
		_ = fail(c, http.StatusNotFound, "todo not found")
		return model.Todo{}, false
	}

	userID, role := caller(c)
	if role != model.RoleAdmin && t.OwnerID != userID {
		_ = fail(c, http.StatusForbidden, "forbidden")
		return model.Todo{}, false
	}
	return t, true
}

// Get returns a single todo.
func (h *TodoHandler) Get(c echo.Context) error {
	t, ok := h.fetchOwned(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: t})
}

// Create stores a new todo owned by the caller.
func (h *TodoHandler) Create(c echo.Context) error {
	var req createTodoReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	userID, _ := caller(c)

	ctx, cancel := storeCtx(c)
	defer cancel()
	t, err := h.Todos.Create(ctx, store.CreateTodoInput{
		Text:      req.Text,
		Completed: req.Completed,
		Priority:  model.Priority(req.Priority),
		Category:  req.Category,
		OwnerID:   userID,
	})
	if err != nil {
		if ve, ok := store.AsValidation(err); ok {
			return fail(c, http.StatusBadRequest, ve.Error())
		}
		return serverError(c, "create todo", err)
	}

	return c.JSON(http.StatusCreated, envelope{
		Success: true,
		Data:    t,
		Message: "todo created successfully",
	})
}

// Update merges the provided fields into an existing todo.
func (h *TodoHandler) Update(c echo.Context) error {
	if _, ok := h.fetchOwned(c); !ok {
		return nil
	}
	var req updateTodoReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	in := store.UpdateTodoInput{
		Text:      req.Text,
		Completed: req.Completed,
		Category:  req.Category,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		in.Priority = &p
	}

	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	ctx, cancel := storeCtx(c)
	defer cancel()
	t, err := h.Todos.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "todo not found")
		}
		if ve, ok := store.AsValidation(err); ok {
			return fail(c, http.StatusBadRequest, ve.Error())
		}
		return serverError(c, "update todo", err)
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    t,
		Message: "todo updated successfully",
	})
}

// Delete removes a todo and echoes the removed record.
func (h *TodoHandler) Delete(c echo.Context) error {
	t, ok := h.fetchOwned(c)
	if !ok {
		return nil
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	removed, err := h.Todos.Delete(ctx, t.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "todo not found")
		}
		return serverError(c, "delete todo", err)
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    removed,
		Message: "todo deleted successfully",
	})
}
