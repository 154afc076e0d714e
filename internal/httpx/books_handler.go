package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/go-chi/chi/v5"
)

type BooksHandler struct {
	*responder
	Service *bookstore.BookService
}

func (h *BooksHandler) Register(r chi.Router) {
	r.Post("/v1/admin/books", h.add)
	r.Put("/v1/admin/books", h.update)
	r.Get("/v1/books", h.query)
}

func (h *BooksHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	b, err := h.Service.AddBook(ctx, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, b)
}

func (h *BooksHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	b, err := h.Service.UpdateBook(ctx, *req.ID, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, b)
}

func (h *BooksHandler) query(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.Service.QueryBooks(ctx, bookstore.BookFilter{
		ID:         q.ID,
		Cursor:     q.Cursor,
		CategoryID: q.CategoryID,
		Title:      q.Title,
		Author:     q.Author,
		Limit:      q.Limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, list)
}

func (h *BooksHandler) parseQuery(r *http.Request) (bookQuery, error) {
	q := bookQuery{
		Title:  r.URL.Query().Get("title"),
		Author: r.URL.Query().Get("author"),
	}
	var err error
	if q.ID, err = queryInt64(r, "id"); err != nil {
		return q, err
	}
	if q.Cursor, err = queryInt64(r, "cursor"); err != nil {
		return q, err
	}
	if q.CategoryID, err = queryInt64(r, "categoryId"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(r, "limit", bookstore.DefaultBookLimit); err != nil {
		return q, err
	}
	return q, h.validate.Validate(q)
}
