package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst and validates it.
func (rs *responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	ct := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
		return apperr.New(apperr.CodeMediaTypeNotAllowed, ct)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.InvalidParameter("request body is missing")
		case errors.As(err, &typeErr):
			return apperr.InvalidParameter(fmt.Sprintf("%s must be %s", typeErr.Field, typeErr.Type))
		case errors.As(err, &maxErr):
			return apperr.InvalidParameter("request body is too large")
		default:
			return apperr.InvalidParameter("malformed JSON").WithCause(err)
		}
	}
	return rs.validate.Validate(dst)
}

// queryInt64 returns nil when the parameter is absent.
func queryInt64(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, apperr.TypeMismatch(name, v, "int64")
	}
	return &n, nil
}

func requireQueryInt64(r *http.Request, name string) (int64, error) {
	n, err := queryInt64(r, name)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, apperr.MissingParameter(name, "int64")
	}
	return *n, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.TypeMismatch(name, v, "int")
	}
	return n, nil
}
