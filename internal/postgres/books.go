package postgres

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/shopspring/decimal"
)

// Prices travel as text so NUMERIC(19,4) round-trips exactly.
const bookColumns = `id, category_id, title, author, price::text, created_by, updated_by, created_time, updated_time`

func scanBook(row interface{ Scan(...any) error }) (bookstore.Book, error) {
	var (
		b     bookstore.Book
		price string
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &b.Title, &b.Author, &price,
		&b.CreatedBy, &b.UpdatedBy, &b.CreatedTime, &b.UpdatedTime); err != nil {
		return b, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return b, fmt.Errorf("book %d price %q: %w", b.ID, price, err)
	}
	b.Price = d
	return b, nil
}

func (q *queries) GetBook(ctx context.Context, id int64) (bookstore.Book, error) {
	b, err := scanBook(q.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	return b, noRecord(err)
}

func (q *queries) InsertBook(ctx context.Context, b *bookstore.Book) error {
	var price string
	err := q.db.QueryRow(ctx, `
		INSERT INTO books (category_id, title, author, price, created_by, updated_by, created_time, updated_time)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
		RETURNING id, price::text`,
		b.CategoryID, b.Title, b.Author, b.Price.String(), b.CreatedBy, b.UpdatedBy, b.CreatedTime, b.UpdatedTime,
	).Scan(&b.ID, &price)
	if err != nil {
		return err
	}
	b.Price, err = decimal.NewFromString(price)
	return err
}

func (q *queries) UpdateBook(ctx context.Context, b bookstore.Book) error {
	ct, err := q.db.Exec(ctx, `
		UPDATE books
		SET category_id = $2, title = $3, author = $4, price = $5::numeric, updated_by = $6, updated_time = $7
		WHERE id = $1`,
		b.ID, b.CategoryID, b.Title, b.Author, b.Price.String(), b.UpdatedBy, b.UpdatedTime,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return bookstore.ErrNoRecord
	}
	return nil
}

func (q *queries) FindBooks(ctx context.Context, f bookstore.BookFilter) ([]bookstore.Book, error) {
	sel := newSelect(`SELECT ` + bookColumns + ` FROM books`)
	if f.ID != nil {
		sel.eq("id", *f.ID)
	}
	if f.Cursor != nil {
		sel.lt("id", *f.Cursor)
	}
	if f.CategoryID != nil {
		sel.eq("category_id", *f.CategoryID)
	}
	if f.Title != "" {
		sel.contains("title", f.Title)
	}
	if f.Author != "" {
		sel.contains("author", f.Author)
	}
	sql, args := sel.orderByDesc("id").limitTo(f.Limit).sql()
	return q.books(ctx, sql, args)
}

func (q *queries) BooksByID(ctx context.Context, ids []int64) (map[int64]bookstore.Book, error) {
	out := make(map[int64]bookstore.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	sql, args := newSelect(`SELECT ` + bookColumns + ` FROM books`).in("id", ids).sql()
	rows, err := q.books(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	for _, b := range rows {
		out[b.ID] = b
	}
	return out, nil
}

func (q *queries) books(ctx context.Context, sql string, args []any) ([]bookstore.Book, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookstore.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
