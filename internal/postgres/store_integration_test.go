//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/ariefcatur/go-bookstore/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bookstore"),
		tcpostgres.WithUsername("bookstore"),
		tcpostgres.WithPassword("bookstore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestStore_Integration(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	svc := bookstore.New(postgres.NewStore(pool), zerolog.Nop())

	cat, err := svc.Categories.Create(ctx, "Fiction")
	require.NoError(t, err)

	_, err = svc.Categories.Create(ctx, "Fiction")
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)

	book, err := svc.Books.AddBook(ctx, bookstore.BookInput{
		CategoryID: cat.ID, Title: "100% Dune_Messiah", Author: "Frank Herbert",
		Price: decimal.RequireFromString("123456789098765.1234"),
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789098765.1234", book.Price.String())

	t.Run("like escapes wildcards", func(t *testing.T) {
		got, err := svc.Books.QueryBooks(ctx, bookstore.BookFilter{Title: "100%"})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = svc.Books.QueryBooks(ctx, bookstore.BookFilter{Title: "1_0"})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = svc.Books.QueryBooks(ctx, bookstore.BookFilter{Author: "HERBERT"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Fiction", got[0].CategoryName)
	})

	t.Run("cart merge, reduce and checkout", func(t *testing.T) {
		cheap, err := svc.Books.AddBook(ctx, bookstore.BookInput{
			CategoryID: cat.ID, Title: "Emma", Author: "Jane Austen", Price: decimal.RequireFromString("0.1"),
		})
		require.NoError(t, err)

		_, err = svc.Cart.AddItem(ctx, 7, cheap.ID, 2)
		require.NoError(t, err)
		merged, err := svc.Cart.AddItem(ctx, 7, cheap.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, merged.Quantity)

		out, err := svc.Cart.Checkout(ctx, 7)
		require.NoError(t, err)
		assert.True(t, out.TotalPrice.Equal(decimal.RequireFromString("0.3")), "got %s", out.TotalPrice)

		reduced, err := svc.Cart.ReduceItem(ctx, 7, cheap.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 0, reduced.Quantity)

		removed, err := svc.Cart.RemoveItem(ctx, 7, cheap.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("quantity beyond integer range", func(t *testing.T) {
		_, err := svc.Cart.AddItem(ctx, 8, book.ID, bookstore.MaxQuantity)
		require.NoError(t, err)

		_, err = svc.Cart.AddItem(ctx, 8, book.ID, 1)
		require.ErrorIs(t, err, apperr.ErrValidation)

		items, err := svc.Cart.QueryItems(ctx, bookstore.CartFilter{UserID: 8})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, bookstore.MaxQuantity, items[0].Quantity)
	})

	t.Run("concurrent adds share one line", func(t *testing.T) {
		const workers = 12
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Cart.AddItem(ctx, 9, book.ID, 1)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		items, err := svc.Cart.QueryItems(ctx, bookstore.CartFilter{UserID: 9})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, workers, items[0].Quantity)
	})

	t.Run("concurrent creates of one name", func(t *testing.T) {
		const workers = 12
		var (
			wg      sync.WaitGroup
			created atomic.Int32
			taken   atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Categories.Create(ctx, "Poetry")
				switch {
				case err == nil:
					created.Add(1)
				case errors.Is(err, apperr.ErrAlreadyExists):
					taken.Add(1)
				default:
					t.Errorf("create: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, int32(workers-1), taken.Load())
	})
}
