package bookstore

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// SystemActor is recorded in created_by/updated_by for writes made by the API.
const SystemActor int64 = -1

// MaxQuantity bounds a cart line's quantity; it matches the INTEGER column.
const MaxQuantity = math.MaxInt32

type Category struct {
	ID          int64
	Name        string
	CreatedBy   int64
	UpdatedBy   int64
	CreatedTime time.Time
	UpdatedTime time.Time
}

type Book struct {
	ID          int64
	CategoryID  int64
	Title       string
	Author      string
	Price       decimal.Decimal
	CreatedBy   int64
	UpdatedBy   int64
	CreatedTime time.Time
	UpdatedTime time.Time
}

// CartLine is one book in one user's cart. At most one line exists per
// (UserID, BookID).
type CartLine struct {
	ID          int64
	UserID      int64
	BookID      int64
	Quantity    int
	CreatedTime time.Time
	UpdatedTime time.Time
}

// Page size limits for the list queries.
const (
	DefaultCategoryLimit = 50
	MaxCategoryLimit     = 1024
	DefaultBookLimit     = 50
	MaxBookLimit         = 256
	DefaultCartLimit     = 20
	MaxCartLimit         = 100
)

// CategoryFilter selects categories, newest id first.
type CategoryFilter struct {
	ID     *int64
	Cursor *int64 // only ids strictly below the cursor
	Limit  int
}

// BookFilter selects books, newest id first. Title and Author match substrings.
type BookFilter struct {
	ID         *int64
	Cursor     *int64
	CategoryID *int64
	Title      string
	Author     string
	Limit      int
}

// CartFilter selects one user's cart lines, newest id first.
type CartFilter struct {
	UserID int64
	Cursor *int64
	Limit  int
}
