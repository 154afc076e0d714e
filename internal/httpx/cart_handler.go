package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	*responder
	Service     *bookstore.CartService
	Idempotency IdempotencyStore // optional
}

func (h *CartHandler) Register(r chi.Router) {
	add := http.Handler(http.HandlerFunc(h.add))
	if h.Idempotency != nil {
		add = h.idempotent(h.Idempotency)(add)
	}
	r.Method(http.MethodPost, "/v1/shopping-cart/items", add)
	r.Patch("/v1/shopping-cart/items", h.reduce)
	r.Delete("/v1/shopping-cart/items", h.remove)
	r.Get("/v1/shopping-cart", h.query)
	r.Post("/v1/shopping-cart:checkout", h.checkout)
	r.Post("/v1/shopping-chart:checkout", h.checkout)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.Service.AddItem(ctx, UserID(ctx), *req.BookID, req.quantity())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, item)
}

func (h *CartHandler) reduce(w http.ResponseWriter, r *http.Request) {
	var req reduceCartItemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.Service.ReduceItem(ctx, UserID(ctx), *req.BookID, *req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, item)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	var (
		q   removeCartItemQuery
		err error
	)
	q.BookID, err = requireQueryInt64(r, "bookId")
	if err == nil {
		err = h.validate.Validate(q)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	removed, err := h.Service.RemoveItem(ctx, UserID(ctx), q.BookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, removed)
}

func (h *CartHandler) query(w http.ResponseWriter, r *http.Request) {
	var (
		q   cartQuery
		err error
	)
	q.Cursor, err = queryInt64(r, "cursor")
	if err == nil {
		q.Limit, err = queryInt(r, "limit", bookstore.DefaultCartLimit)
	}
	if err == nil {
		err = h.validate.Validate(q)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.Service.QueryItems(ctx, bookstore.CartFilter{UserID: UserID(ctx), Cursor: q.Cursor, Limit: q.Limit})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, items)
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.Service.Checkout(ctx, UserID(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, out)
}
