package postgres

import (
	"context"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
)

const cartColumns = `id, user_id, book_id, quantity, created_time, updated_time`

func scanCartLine(row interface{ Scan(...any) error }) (bookstore.CartLine, error) {
	var l bookstore.CartLine
	err := row.Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.CreatedTime, &l.UpdatedTime)
	return l, err
}

// MergeCartLine relies on the (user_id, book_id) unique key so concurrent adds
// of the same book accumulate instead of racing on insert.
func (q *queries) MergeCartLine(ctx context.Context, l *bookstore.CartLine) error {
	if l.Quantity > bookstore.MaxQuantity {
		return bookstore.ErrQuantityOverflow
	}
	err := q.db.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, book_id, quantity, created_time, updated_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, book_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_time = EXCLUDED.updated_time
		RETURNING `+cartColumns,
		l.UserID, l.BookID, l.Quantity, l.CreatedTime, l.UpdatedTime,
	).Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.CreatedTime, &l.UpdatedTime)
	if isOutOfRange(err) {
		return bookstore.ErrQuantityOverflow
	}
	return err
}

func (q *queries) GetCartLineForUpdate(ctx context.Context, userID, bookID int64) (bookstore.CartLine, error) {
	l, err := scanCartLine(q.db.QueryRow(ctx, `
		SELECT `+cartColumns+` FROM cart_items
		WHERE user_id = $1 AND book_id = $2
		FOR UPDATE`, userID, bookID))
	return l, noRecord(err)
}

func (q *queries) UpdateCartLine(ctx context.Context, l bookstore.CartLine) error {
	ct, err := q.db.Exec(ctx, `UPDATE cart_items SET quantity = $2, updated_time = $3 WHERE id = $1`,
		l.ID, l.Quantity, l.UpdatedTime)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return bookstore.ErrNoRecord
	}
	return nil
}

func (q *queries) DeleteCartLine(ctx context.Context, userID, bookID int64) (int64, error) {
	ct, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (q *queries) FindCartLines(ctx context.Context, f bookstore.CartFilter) ([]bookstore.CartLine, error) {
	sel := newSelect(`SELECT `+cartColumns+` FROM cart_items`).eq("user_id", f.UserID)
	if f.Cursor != nil {
		sel.lt("id", *f.Cursor)
	}
	sql, args := sel.orderByDesc("id").limitTo(f.Limit).sql()
	return q.cartLines(ctx, sql, args)
}

func (q *queries) CartLinesByUser(ctx context.Context, userID int64) ([]bookstore.CartLine, error) {
	sql, args := newSelect(`SELECT `+cartColumns+` FROM cart_items`).eq("user_id", userID).orderByAsc("id").sql()
	return q.cartLines(ctx, sql, args)
}

func (q *queries) cartLines(ctx context.Context, sql string, args []any) ([]bookstore.CartLine, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookstore.CartLine, 0)
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
