package bookstore

import (
	"context"
	"errors"
)

var (
	// ErrNoRecord is returned by single-row lookups that match nothing.
	ErrNoRecord = errors.New("bookstore: no record")
	// ErrDuplicateName is returned when a category name is already taken.
	ErrDuplicateName = errors.New("bookstore: duplicate category name")
	// ErrQuantityOverflow is returned when a merged cart line would exceed MaxQuantity.
	ErrQuantityOverflow = errors.New("bookstore: cart quantity out of range")
)

// Repository runs units of work against the store.
type Repository interface {
	// InTx runs fn in a transaction; fn's error rolls it back.
	InTx(ctx context.Context, fn func(q Queries) error) error
	// View runs fn without write guarantees.
	View(ctx context.Context, fn func(q Queries) error) error
}

// Queries is the set of statements available inside a unit of work.
type Queries interface {
	CategoryExistsByName(ctx context.Context, name string) (bool, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	InsertCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c Category) error
	FindCategories(ctx context.Context, f CategoryFilter) ([]Category, error)
	// CategoryNames resolves names for ids; missing ids are absent from the map.
	CategoryNames(ctx context.Context, ids []int64) (map[int64]string, error)

	GetBook(ctx context.Context, id int64) (Book, error)
	InsertBook(ctx context.Context, b *Book) error
	UpdateBook(ctx context.Context, b Book) error
	FindBooks(ctx context.Context, f BookFilter) ([]Book, error)
	BooksByID(ctx context.Context, ids []int64) (map[int64]Book, error)

	// MergeCartLine inserts l or adds l.Quantity to the existing line for the
	// same user and book, refreshing its updated time. l is overwritten with
	// the stored row.
	MergeCartLine(ctx context.Context, l *CartLine) error
	// GetCartLineForUpdate locks and returns the user's line for bookID.
	GetCartLineForUpdate(ctx context.Context, userID, bookID int64) (CartLine, error)
	UpdateCartLine(ctx context.Context, l CartLine) error
	DeleteCartLine(ctx context.Context, userID, bookID int64) (int64, error)
	FindCartLines(ctx context.Context, f CartFilter) ([]CartLine, error)
	CartLinesByUser(ctx context.Context, userID int64) ([]CartLine, error)
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
