package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/ariefcatur/go-bookstore/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestStore_CursorPagination(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	require.NoError(t, s.InTx(ctx, func(q bookstore.Queries) error {
		for i := 1; i <= 10; i++ {
			c := bookstore.Category{Name: string(rune('a' + i))}
			if err := q.InsertCategory(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	}))

	var got []bookstore.Category
	require.NoError(t, s.View(ctx, func(q bookstore.Queries) error {
		var err error
		got, err = q.FindCategories(ctx, bookstore.CategoryFilter{Cursor: ptr(int64(8)), Limit: 3})
		return err
	}))

	ids := make([]int64, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{7, 6, 5}, ids)
}

func TestStore_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(q bookstore.Queries) error {
		c := bookstore.Category{Name: "Fiction"}
		if err := q.InsertCategory(ctx, &c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.View(ctx, func(q bookstore.Queries) error {
		exists, err := q.CategoryExistsByName(ctx, "Fiction")
		require.NoError(t, err)
		assert.False(t, exists)
		return nil
	}))
}

func TestStore_DuplicateCategoryName(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	err := s.InTx(ctx, func(q bookstore.Queries) error {
		a := bookstore.Category{Name: "Fiction"}
		if err := q.InsertCategory(ctx, &a); err != nil {
			return err
		}
		b := bookstore.Category{Name: "Fiction"}
		return q.InsertCategory(ctx, &b)
	})
	assert.ErrorIs(t, err, bookstore.ErrDuplicateName)
}

func TestStore_MergeCartLine(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	var merged bookstore.CartLine
	require.NoError(t, s.InTx(ctx, func(q bookstore.Queries) error {
		first := bookstore.CartLine{UserID: 1, BookID: 9, Quantity: 2, CreatedTime: t0, UpdatedTime: t0}
		if err := q.MergeCartLine(ctx, &first); err != nil {
			return err
		}
		merged = bookstore.CartLine{UserID: 1, BookID: 9, Quantity: 3, CreatedTime: t1, UpdatedTime: t1}
		return q.MergeCartLine(ctx, &merged)
	}))

	assert.Equal(t, int64(1), merged.ID)
	assert.Equal(t, 5, merged.Quantity)
	assert.Equal(t, t0, merged.CreatedTime)
	assert.Equal(t, t1, merged.UpdatedTime)
}

func TestStore_MergeCartLineRejectsOverflow(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	require.NoError(t, s.InTx(ctx, func(q bookstore.Queries) error {
		l := bookstore.CartLine{UserID: 1, BookID: 9, Quantity: bookstore.MaxQuantity}
		return q.MergeCartLine(ctx, &l)
	}))

	err := s.InTx(ctx, func(q bookstore.Queries) error {
		l := bookstore.CartLine{UserID: 1, BookID: 9, Quantity: 1}
		return q.MergeCartLine(ctx, &l)
	})
	require.ErrorIs(t, err, bookstore.ErrQuantityOverflow)

	err = s.InTx(ctx, func(q bookstore.Queries) error {
		l := bookstore.CartLine{UserID: 2, BookID: 9, Quantity: bookstore.MaxQuantity + 1}
		return q.MergeCartLine(ctx, &l)
	})
	require.ErrorIs(t, err, bookstore.ErrQuantityOverflow)

	require.NoError(t, s.View(ctx, func(q bookstore.Queries) error {
		lines, err := q.CartLinesByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, bookstore.MaxQuantity, lines[0].Quantity)

		lines, err = q.CartLinesByUser(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, lines)
		return nil
	}))
}

func TestStore_FindBooksCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	require.NoError(t, s.InTx(ctx, func(q bookstore.Queries) error {
		for _, title := range []string{"The Hobbit", "Dune", "hobbit tales"} {
			b := bookstore.Book{CategoryID: 1, Title: title, Author: "x"}
			if err := q.InsertBook(ctx, &b); err != nil {
				return err
			}
		}
		return nil
	}))

	var got []bookstore.Book
	require.NoError(t, s.View(ctx, func(q bookstore.Queries) error {
		var err error
		got, err = q.FindBooks(ctx, bookstore.BookFilter{Title: "HOBBIT", Limit: 10})
		return err
	}))
	require.Len(t, got, 2)
	assert.Equal(t, "hobbit tales", got[0].Title)
	assert.Equal(t, "The Hobbit", got[1].Title)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := memstore.New()
	err := s.InTx(ctx, func(bookstore.Queries) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
