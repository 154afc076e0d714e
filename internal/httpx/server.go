package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/ariefcatur/go-bookstore/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Deps wires the router. Limiter and Idempotency are optional.
type Deps struct {
	Services       *bookstore.Services
	Messages       Messages
	Validator      *validation.Validator
	Log            zerolog.Logger
	Limiter        Limiter
	Idempotency    IdempotencyStore
	DefaultUserID  int64
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) *chi.Mux {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 5 * time.Second
	}
	if d.DefaultUserID <= 0 {
		d.DefaultUserID = 1
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	rs := &responder{msgs: d.Messages, validate: d.Validator, timeout: d.RequestTimeout}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(hlog.NewHandler(d.Log), withRequestContext)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(withLocale(d.Messages), rs.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", HeaderUserID, HeaderIdempotencyKey, middleware.RequestIDHeader},
		ExposedHeaders: []string{HeaderReplayed, middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.fail(w, r, apperr.New(apperr.CodeNotFound, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.fail(w, r, apperr.New(apperr.CodeMethodNotAllowed, r.Method))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(rs.identity(d.DefaultUserID))
		if d.Limiter != nil {
			r.Use(rs.rateLimit(d.Limiter))
		}

		(&CategoriesHandler{responder: rs, Service: d.Services.Categories}).Register(r)
		(&BooksHandler{responder: rs, Service: d.Services.Books}).Register(r)
		(&CartHandler{responder: rs, Service: d.Services.Cart, Idempotency: d.Idempotency}).Register(r)
	})
	return r
}
