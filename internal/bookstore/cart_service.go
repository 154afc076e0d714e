package bookstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/ariefcatur/go-bookstore/internal/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CartService struct {
	*core
	log zerolog.Logger
}

// AddItem puts quantity copies of a book in the user's cart, merging with an
// existing line for the same book.
func (s *CartService) AddItem(ctx context.Context, userID, bookID int64, quantity int) (CartItem, error) {
	var (
		line CartLine
		book Book
	)
	err := s.repo.InTx(ctx, func(q Queries) error {
		var err error
		book, err = s.book(ctx, q, bookID)
		if err != nil {
			return err
		}

		now := s.clock()
		line = CartLine{
			UserID:      userID,
			BookID:      bookID,
			Quantity:    quantity,
			CreatedTime: now,
			UpdatedTime: now,
		}
		err = q.MergeCartLine(ctx, &line)
		if errors.Is(err, ErrQuantityOverflow) {
			s.log.Info().Int64("user_id", userID).Int64("book_id", bookID).Int("quantity", quantity).Msg("cart add rejected, quantity out of range")
			return quantityOutOfRange()
		}
		if err != nil {
			return fmt.Errorf("merge cart line: %w", err)
		}
		return nil
	})
	if err != nil {
		return CartItem{}, err
	}

	s.emit(ctx, events.CartItemAdded, events.CartKey(userID), events.CartItemPayload{
		UserID: userID, BookID: bookID, Quantity: line.Quantity, Delta: quantity,
	})
	return cartItem(line, bookSnapshot(book)), nil
}

// ReduceItem takes quantity copies of a book out of the user's cart. The line
// is deleted once its quantity would reach zero; a missing line is reported
// with quantity 0 and nothing is stored.
func (s *CartService) ReduceItem(ctx context.Context, userID, bookID int64, quantity int) (CartItem, error) {
	var (
		line    CartLine
		book    Book
		changed bool
	)
	err := s.repo.InTx(ctx, func(q Queries) error {
		var err error
		book, err = s.book(ctx, q, bookID)
		if err != nil {
			return err
		}

		line, err = q.GetCartLineForUpdate(ctx, userID, bookID)
		if errors.Is(err, ErrNoRecord) {
			now := s.clock()
			line = CartLine{UserID: userID, BookID: bookID, CreatedTime: now, UpdatedTime: now}
			return nil
		}
		if err != nil {
			return fmt.Errorf("get cart line: %w", err)
		}

		changed = true
		if quantity >= line.Quantity {
			if _, err := q.DeleteCartLine(ctx, userID, bookID); err != nil {
				return fmt.Errorf("delete cart line: %w", err)
			}
			line.Quantity = 0
			return nil
		}

		line.Quantity -= quantity
		line.UpdatedTime = s.clock()
		if err := q.UpdateCartLine(ctx, line); err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}
		return nil
	})
	if err != nil {
		return CartItem{}, err
	}

	if changed {
		s.emit(ctx, events.CartItemReduced, events.CartKey(userID), events.CartItemPayload{
			UserID: userID, BookID: bookID, Quantity: line.Quantity, Delta: -quantity,
		})
	}
	return cartItem(line, bookSnapshot(book)), nil
}

// RemoveItem deletes the user's line for a book and reports whether one existed.
func (s *CartService) RemoveItem(ctx context.Context, userID, bookID int64) (bool, error) {
	var n int64
	err := s.repo.InTx(ctx, func(q Queries) error {
		var err error
		n, err = q.DeleteCartLine(ctx, userID, bookID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete cart line: %w", err)
	}

	if n > 0 {
		s.emit(ctx, events.CartItemRemoved, events.CartKey(userID), events.CartItemPayload{UserID: userID, BookID: bookID})
	}
	return n > 0, nil
}

// QueryItems lists the user's cart by descending line id. Lines whose book
// no longer exists carry a nil book.
func (s *CartService) QueryItems(ctx context.Context, f CartFilter) ([]CartItem, error) {
	f.Limit = clampLimit(f.Limit, DefaultCartLimit, MaxCartLimit)

	var (
		lines []CartLine
		books map[int64]Book
	)
	err := s.repo.View(ctx, func(q Queries) error {
		var err error
		lines, err = q.FindCartLines(ctx, f)
		if err != nil {
			return fmt.Errorf("find cart lines: %w", err)
		}
		books, err = booksFor(ctx, q, lines)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]CartItem, 0, len(lines))
	for _, l := range lines {
		var snap *BookSnapshot
		if b, ok := books[l.BookID]; ok {
			snap = bookSnapshot(b)
		}
		out = append(out, cartItem(l, snap))
	}
	return out, nil
}

// Checkout prices the whole cart at current book prices. The cart is not
// modified.
func (s *CartService) Checkout(ctx context.Context, userID int64) (Checkout, error) {
	var (
		lines []CartLine
		books map[int64]Book
	)
	err := s.repo.View(ctx, func(q Queries) error {
		var err error
		lines, err = q.CartLinesByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("cart lines by user: %w", err)
		}
		books, err = booksFor(ctx, q, lines)
		return err
	})
	if err != nil {
		return Checkout{}, err
	}

	out := Checkout{Items: make([]CheckoutLine, 0, len(lines)), TotalPrice: decimal.Zero}
	for _, l := range lines {
		b, ok := books[l.BookID]
		if !ok {
			s.log.Warn().Int64("user_id", userID).Int64("book_id", l.BookID).Msg("checkout skipped line, book not found")
			continue
		}
		subtotal := b.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		out.Items = append(out.Items, CheckoutLine{
			BookID:     b.ID,
			Title:      b.Title,
			Author:     b.Author,
			Quantity:   l.Quantity,
			Price:      b.Price,
			TotalPrice: subtotal,
		})
		out.TotalPrice = out.TotalPrice.Add(subtotal)
	}

	s.emit(ctx, events.CartCheckedOut, events.CartKey(userID), events.CartCheckedOutPayload{
		UserID: userID, Lines: len(out.Items), TotalPrice: out.TotalPrice,
	})
	return out, nil
}

func (s *CartService) book(ctx context.Context, q Queries, id int64) (Book, error) {
	b, err := q.GetBook(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		s.log.Info().Int64("book_id", id).Msg("cart change rejected, book not found")
		return Book{}, apperr.NotFound(fmt.Sprintf("bookId=%d", id))
	}
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func quantityOutOfRange() error {
	msg := fmt.Sprintf("The quantity cannot be greater than %d", MaxQuantity)
	return apperr.Validation(msg, []validation.Violation{{Field: "quantity", Message: msg}})
}

func booksFor(ctx context.Context, q Queries, lines []CartLine) (map[int64]Book, error) {
	if len(lines) == 0 {
		return map[int64]Book{}, nil
	}
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.BookID)
	}
	books, err := q.BooksByID(ctx, distinct(ids))
	if err != nil {
		return nil, fmt.Errorf("books by id: %w", err)
	}
	return books, nil
}
