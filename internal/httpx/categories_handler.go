package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/go-chi/chi/v5"
)

type CategoriesHandler struct {
	*responder
	Service *bookstore.CategoryService
}

func (h *CategoriesHandler) Register(r chi.Router) {
	r.Post("/v1/admin/categories", h.create)
	r.Put("/v1/admin/categories", h.update)
	r.Get("/v1/categories", h.query)
}

func (h *CategoriesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.Service.Create(ctx, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, c)
}

func (h *CategoriesHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.Service.Update(ctx, *req.ID, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, c)
}

func (h *CategoriesHandler) query(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.Service.Query(ctx, bookstore.CategoryFilter{ID: q.ID, Cursor: q.Cursor, Limit: q.Limit})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, list)
}

func (h *CategoriesHandler) parseQuery(r *http.Request) (categoryQuery, error) {
	var (
		q   categoryQuery
		err error
	)
	if q.ID, err = queryInt64(r, "id"); err != nil {
		return q, err
	}
	if q.Cursor, err = queryInt64(r, "cursor"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(r, "limit", bookstore.DefaultCategoryLimit); err != nil {
		return q, err
	}
	return q, h.validate.Validate(q)
}
