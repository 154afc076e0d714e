package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookRequest struct {
	CategoryID *int64           `json:"categoryId" validate:"required,min=1"`
	Title      string           `json:"title" validate:"notblank,max=255"`
	Price      *decimal.Decimal `json:"price" validate:"required,decmin=0,digits=15_4"`
}

type listRequest struct {
	Limit  int    `query:"limit" validate:"min=1,max=256"`
	Cursor *int64 `query:"cursor" validate:"omitempty,min=1"`
}

func ptr[T any](v T) *T { return &v }

func validBook() bookRequest {
	return bookRequest{
		CategoryID: ptr(int64(1)),
		Title:      "Dune",
		Price:      ptr(decimal.RequireFromString("19.99")),
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validBook()))
	assert.NoError(t, v.Validate(listRequest{Limit: 50}))
}

func TestValidator_PriceDigits(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		price string
		ok    bool
	}{
		{"fifteen integer and four fraction digits", "123456789098765.1234", true},
		{"zero", "0", true},
		{"sixteen integer digits", "1234567890987651", false},
		{"five fraction digits", "1.12345", false},
		{"negative", "-0.01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBook()
			req.Price = ptr(decimal.RequireFromString(tt.price))
			err := v.Validate(req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestValidator_Violations(t *testing.T) {
	v := validation.New()

	req := bookRequest{Title: "   ", Price: nil}
	err := v.Validate(req)
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeFailedParameterCheck, appErr.Code)

	violations, ok := appErr.Details.([]validation.Violation)
	require.True(t, ok)
	fields := make([]string, 0, len(violations))
	for _, viol := range violations {
		fields = append(fields, viol.Field)
	}
	assert.ElementsMatch(t, []string{"categoryId", "title", "price"}, fields)
	assert.Contains(t, appErr.Args[0], "title is required")
}

func TestValidator_LengthAndRange(t *testing.T) {
	v := validation.New()

	req := validBook()
	req.Title = strings.Repeat("x", 256)
	err := v.Validate(req)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "The length of title exceeds the limit", appErr.Args[0])

	err = v.Validate(listRequest{Limit: 257})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "The limit cannot be greater than 256", appErr.Args[0])

	err = v.Validate(listRequest{Limit: 10, Cursor: ptr(int64(0))})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "cursor cannot less than 1", appErr.Args[0])
}
