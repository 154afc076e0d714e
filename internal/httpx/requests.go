package httpx

import (
	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/shopspring/decimal"
)

type createCategoryRequest struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

type updateCategoryRequest struct {
	ID   *int64 `json:"id" validate:"required,min=1"`
	Name string `json:"name" validate:"notblank,max=255"`
}

type categoryQuery struct {
	ID     *int64 `query:"id" validate:"omitempty,min=1"`
	Cursor *int64 `query:"cursor" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"min=1,max=1024"`
}

type bookFields struct {
	CategoryID *int64           `json:"categoryId" validate:"required,min=1"`
	Title      string           `json:"title" validate:"notblank,max=255"`
	Author     string           `json:"author" validate:"notblank,max=255"`
	Price      *decimal.Decimal `json:"price" validate:"required,decmin=0,digits=15_4"`
}

func (f bookFields) input() bookstore.BookInput {
	return bookstore.BookInput{
		CategoryID: *f.CategoryID,
		Title:      f.Title,
		Author:     f.Author,
		Price:      *f.Price,
	}
}

type addBookRequest struct {
	bookFields
}

type updateBookRequest struct {
	ID *int64 `json:"id" validate:"required,min=1"`
	bookFields
}

type bookQuery struct {
	ID         *int64 `query:"id" validate:"omitempty,min=1"`
	Cursor     *int64 `query:"cursor" validate:"omitempty,min=1"`
	CategoryID *int64 `query:"categoryId" validate:"omitempty,min=1"`
	Title      string `query:"title" validate:"max=255"`
	Author     string `query:"author" validate:"max=255"`
	Limit      int    `query:"limit" validate:"min=1,max=256"`
}

// addCartItemRequest adds one copy when quantity is omitted.
type addCartItemRequest struct {
	BookID   *int64 `json:"bookId" validate:"required,min=1"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1,max=2147483647"`
}

func (r addCartItemRequest) quantity() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type reduceCartItemRequest struct {
	BookID   *int64 `json:"bookId" validate:"required,min=1"`
	Quantity *int   `json:"quantity" validate:"required,min=1,max=2147483647"`
}

type removeCartItemQuery struct {
	BookID int64 `query:"bookId" validate:"min=1"`
}

type cartQuery struct {
	Cursor *int64 `query:"cursor" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
}
