// Package query contains pure, side-effect-free transforms applied on top
// of store listings: free-text search, equality filters, stable sorting and
// pagination. None of the functions mutate their input slice.
package query

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// ErrBadPage is returned by Paginate for a page or limit below 1.
var ErrBadPage = errors.New("page and limit must be positive integers")

// Criteria describes the optional filters applied by Filter. Zero values
// are no-ops, and all present criteria compose with logical AND.
//
// Completed is kept as the raw query string: only the exact values "true"
// and "false" are coerced to a boolean filter, anything else is ignored.
type Criteria struct {
	Search    string
	Category  string
	Priority  string
	Completed string
	OwnerID   uint64
}

// Filter applies, in order, a case-insensitive substring search over the
// text field, then equality filters for category, priority, completed and
// owner.
func Filter(todos []model.Todo, c Criteria) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	search := strings.ToLower(c.Search)
	for _, t := range todos {
		if search != "" && !strings.Contains(strings.ToLower(t.Text), search) {
			continue
		}
		if c.Category != "" && t.Category != c.Category {
			continue
		}
		if c.Priority != "" && string(t.Priority) != c.Priority {
			continue
		}
		if c.Completed == "true" && !t.Completed {
			continue
		}
		if c.Completed == "false" && t.Completed {
			continue
		}
		if c.OwnerID != 0 && t.OwnerID != c.OwnerID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders todos by "createdAt" or "priority" (high=3, medium=2, low=1)
// in the given direction ("asc" or "desc"). An unrecognized field leaves
// the order unchanged. The sort is stable: equal keys keep their relative
// input order.
func Sort(todos []model.Todo, field, direction string) []model.Todo {
	out := make([]model.Todo, len(todos))
	copy(out, todos)

	desc := strings.EqualFold(direction, "desc")
	var less func(a, b model.Todo) bool
	switch field {
	case "createdAt", "created_at":
		less = func(a, b model.Todo) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "priority":
		less = func(a, b model.Todo) bool { return a.Priority.Weight() < b.Priority.Weight() }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Page holds pagination metadata returned alongside a page slice.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices out the 1-indexed page [offset, offset+limit). Requesting
// a page past the end yields an empty slice with correct metadata rather
// than an error; page or limit below 1 yields ErrBadPage.
func Paginate(todos []model.Todo, page, limit int) ([]model.Todo, Page, error) {
	if page < 1 || limit < 1 {
		return nil, Page{}, ErrBadPage
	}
	total := len(todos)
	meta := Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
	offset := (page - 1) * limit
	if offset >= total {
		return []model.Todo{}, meta, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]model.Todo, end-offset)
	copy(out, todos[offset:end])
	return out, meta, nil
}
