package bookstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type BookService struct {
	*core
	log zerolog.Logger
}

// BookInput carries the writable fields of a book.
type BookInput struct {
	CategoryID int64
	Title      string
	Author     string
	Price      decimal.Decimal
}

// AddBook adds a book to an existing category.
func (s *BookService) AddBook(ctx context.Context, in BookInput) (BookDetail, error) {
	var (
		b            Book
		categoryName string
	)
	err := s.repo.InTx(ctx, func(q Queries) error {
		c, err := s.category(ctx, q, in.CategoryID)
		if err != nil {
			return err
		}
		categoryName = c.Name

		now := s.clock()
		b = Book{
			CategoryID:  in.CategoryID,
			Title:       in.Title,
			Author:      in.Author,
			Price:       in.Price,
			CreatedBy:   SystemActor,
			UpdatedBy:   SystemActor,
			CreatedTime: now,
			UpdatedTime: now,
		}
		if err := q.InsertBook(ctx, &b); err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		return nil
	})
	if err != nil {
		return BookDetail{}, err
	}

	s.emit(ctx, events.BookAdded, events.BookKey(b.ID), bookPayload(b))
	return bookDetail(b, categoryName), nil
}

// UpdateBook overwrites every writable field of book id.
func (s *BookService) UpdateBook(ctx context.Context, id int64, in BookInput) (BookDetail, error) {
	var (
		b            Book
		categoryName string
	)
	err := s.repo.InTx(ctx, func(q Queries) error {
		var err error
		b, err = q.GetBook(ctx, id)
		if errors.Is(err, ErrNoRecord) {
			return apperr.NotFound(fmt.Sprintf("id=%d", id))
		}
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}

		c, err := s.category(ctx, q, in.CategoryID)
		if err != nil {
			return err
		}
		categoryName = c.Name

		b.CategoryID = in.CategoryID
		b.Title = in.Title
		b.Author = in.Author
		b.Price = in.Price
		b.UpdatedBy = SystemActor
		b.UpdatedTime = s.clock()
		if err := q.UpdateBook(ctx, b); err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		return nil
	})
	if err != nil {
		return BookDetail{}, err
	}

	s.emit(ctx, events.BookUpdated, events.BookKey(b.ID), bookPayload(b))
	return bookDetail(b, categoryName), nil
}

// QueryBooks lists books by descending id with their category names. A book
// whose category no longer exists gets a blank name.
func (s *BookService) QueryBooks(ctx context.Context, f BookFilter) ([]BookDetail, error) {
	f.Limit = clampLimit(f.Limit, DefaultBookLimit, MaxBookLimit)

	var (
		rows  []Book
		names map[int64]string
	)
	err := s.repo.View(ctx, func(q Queries) error {
		var err error
		rows, err = q.FindBooks(ctx, f)
		if err != nil {
			return fmt.Errorf("find books: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(rows))
		for _, b := range rows {
			ids = append(ids, b.CategoryID)
		}
		names, err = q.CategoryNames(ctx, distinct(ids))
		if err != nil {
			return fmt.Errorf("category names: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]BookDetail, 0, len(rows))
	for _, b := range rows {
		out = append(out, bookDetail(b, names[b.CategoryID]))
	}
	return out, nil
}

func (s *BookService) category(ctx context.Context, q Queries, id int64) (Category, error) {
	c, err := q.GetCategory(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		s.log.Info().Int64("category_id", id).Msg("book rejected, category not found")
		return Category{}, apperr.NotFound(fmt.Sprintf("categoryId=%d", id))
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func bookPayload(b Book) events.BookPayload {
	return events.BookPayload{
		BookID:     b.ID,
		CategoryID: b.CategoryID,
		Title:      b.Title,
		Author:     b.Author,
		Price:      b.Price,
	}
}
