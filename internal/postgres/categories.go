package postgres

import (
	"context"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
)

const categoryColumns = `id, name, created_by, updated_by, created_time, updated_time`

func scanCategory(row interface{ Scan(...any) error }) (bookstore.Category, error) {
	var c bookstore.Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedBy, &c.UpdatedBy, &c.CreatedTime, &c.UpdatedTime)
	return c, err
}

func (q *queries) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (q *queries) GetCategory(ctx context.Context, id int64) (bookstore.Category, error) {
	c, err := scanCategory(q.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return c, noRecord(err)
}

func (q *queries) InsertCategory(ctx context.Context, c *bookstore.Category) error {
	err := q.db.QueryRow(ctx, `
		INSERT INTO categories (name, created_by, updated_by, created_time, updated_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Name, c.CreatedBy, c.UpdatedBy, c.CreatedTime, c.UpdatedTime,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return bookstore.ErrDuplicateName
	}
	return err
}

func (q *queries) UpdateCategory(ctx context.Context, c bookstore.Category) error {
	ct, err := q.db.Exec(ctx, `
		UPDATE categories SET name = $2, updated_by = $3, updated_time = $4
		WHERE id = $1`,
		c.ID, c.Name, c.UpdatedBy, c.UpdatedTime,
	)
	if isUniqueViolation(err) {
		return bookstore.ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return bookstore.ErrNoRecord
	}
	return nil
}

func (q *queries) FindCategories(ctx context.Context, f bookstore.CategoryFilter) ([]bookstore.Category, error) {
	sel := newSelect(`SELECT ` + categoryColumns + ` FROM categories`)
	if f.ID != nil {
		sel.eq("id", *f.ID)
	}
	if f.Cursor != nil {
		sel.lt("id", *f.Cursor)
	}
	sql, args := sel.orderByDesc("id").limitTo(f.Limit).sql()

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookstore.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *queries) CategoryNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	sql, args := newSelect(`SELECT id, name FROM categories`).in("id", ids).sql()
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}
