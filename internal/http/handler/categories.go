package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/http/response"
	"github.com/rezkam/quadrant/internal/ptr"
)

type categoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// categoryView is a category with the number of tasks filed under it.
type categoryView struct {
	domain.Category
	TaskCount int `json:"taskCount"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	categories, err := svc.ListCategories(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	usage := svc.CategoryUsage(r.Context())

	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryView{Category: c, TaskCount: usage[c.ID]})
	}
	response.OK(w, out)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if req.Name == nil {
		response.FromDomainError(w, r, domain.ErrCategoryNameRequired)
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	c, err := svc.CreateCategory(r.Context(), *req.Name, ptr.Deref(req.Color, ""), ptr.Deref(req.Icon, ""))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, c)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	c, err := svc.UpdateCategory(r.Context(), chi.URLParam(r, "id"), todo.CategoryPatch{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, c)
}

// deleteCategory removes a category; its tasks move to the first remaining
// category.
func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	if err := svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.syncReminders(r.Context(), svc)
	response.NoContent(w)
}
