package httpx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/ariefcatur/go-bookstore/internal/redisx"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/language"
)

const (
	HeaderUserID         = "X-User-Id"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	localeKey
)

// UserID returns the caller identity set by the identity middleware.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func localeFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeKey).(language.Tag); ok {
		return tag
	}
	return language.English
}

// withLocale stores the Accept-Language match. It runs first so every later
// rejection is localized.
func withLocale(msgs Messages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := msgs.Match(r.Header.Get("Accept-Language"))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey, tag)))
		})
	}
}

// withRequestContext tags the request logger and emitted events with the
// chi request id.
func withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		if id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
			r = r.WithContext(events.WithCorrelationID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// identity reads the caller from X-User-Id, set by the gateway in front of
// the service, and falls back to defaultUserID.
func (rs *responder) identity(defaultUserID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := defaultUserID
			if v := r.Header.Get(HeaderUserID); v != "" {
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil || n <= 0 {
					rs.fail(w, r, apperr.TypeMismatch(HeaderUserID, v, "int64"))
					return
				}
				uid = n
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
		})
	}
}

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	Allow(key string) bool
}

// rateLimit keys buckets by user id.
func (rs *responder) rateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(strconv.FormatInt(UserID(r.Context()), 10)) {
				rs.fail(w, r, apperr.New(apperr.CodeTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// recoverer answers panics with the 500 envelope.
func (rs *responder) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rs.fail(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// IdempotencyStore keeps responses for replay.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID int64, key string) (redisx.StoredResponse, bool, error)
	Save(ctx context.Context, userID int64, key string, resp redisx.StoredResponse) error
}

const maxIdempotencyKey = 255

// idempotent replays the stored response for a repeated Idempotency-Key.
// Only successful responses are stored so failed attempts can be retried.
// Store failures degrade to normal processing.
func (rs *responder) idempotent(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderIdempotencyKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKey {
				rs.fail(w, r, apperr.InvalidParameter(HeaderIdempotencyKey))
				return
			}

			log := hlog.FromRequest(r)
			uid := UserID(r.Context())
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			stored, found, err := store.Lookup(ctx, uid, key)
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("idempotency lookup")
			}
			if found {
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set(HeaderReplayed, "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status != http.StatusOK {
				return
			}

			ctx, cancel = context.WithTimeout(context.WithoutCancel(r.Context()), time.Second)
			defer cancel()
			err = store.Save(ctx, uid, key, redisx.StoredResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        buf.Bytes(),
			})
			if err != nil {
				log.Warn().Err(err).Msg("idempotency save")
			}
		})
	}
}
