package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/validation"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/language"
)

// Envelope wraps every API response. Code "200" means success.
type Envelope struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Data    any         `json:"data"`
}

// Messages localizes response codes.
type Messages interface {
	Match(acceptLanguage string) language.Tag
	Resolve(code apperr.Code, args []any, tag language.Tag) string
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// responder is shared by the resource handlers.
type responder struct {
	msgs     Messages
	validate *validation.Validator
	timeout  time.Duration
}

func (rs *responder) ok(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		Code:    apperr.CodeSuccess,
		Message: rs.msgs.Resolve(apperr.CodeSuccess, nil, localeFrom(r.Context())),
		Data:    data,
	})
}

// fail translates err into an envelope. Errors without a code are logged and
// answered with the generic 500 text.
func (rs *responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		appErr = apperr.Internal(err)
	} else if appErr.Code == apperr.CodeServerError {
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
	}

	writeJSON(w, appErr.HTTPStatus(), Envelope{
		Code:    appErr.Code,
		Message: rs.msgs.Resolve(appErr.Code, appErr.Args, localeFrom(r.Context())),
		Data:    appErr.Details,
	})
}
