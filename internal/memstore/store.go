// Package memstore is an in-process bookstore.Repository. A single mutex
// serializes units of work; a failed InTx leaves the store untouched.
package memstore

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
)

var (
	_ bookstore.Repository = (*Store)(nil)
	_ bookstore.Queries    = (*state)(nil)
)

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: &state{
		categories: map[int64]bookstore.Category{},
		books:      map[int64]bookstore.Book{},
		lines:      map[int64]bookstore.CartLine{},
	}}
}

func (s *Store) InTx(ctx context.Context, fn func(q bookstore.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) View(ctx context.Context, fn func(q bookstore.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

type state struct {
	categories map[int64]bookstore.Category
	books      map[int64]bookstore.Book
	lines      map[int64]bookstore.CartLine

	categorySeq int64
	bookSeq     int64
	lineSeq     int64
}

func (s *state) clone() *state {
	return &state{
		categories:  maps.Clone(s.categories),
		books:       maps.Clone(s.books),
		lines:       maps.Clone(s.lines),
		categorySeq: s.categorySeq,
		bookSeq:     s.bookSeq,
		lineSeq:     s.lineSeq,
	}
}

// ---- categories ----

func (s *state) CategoryExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range s.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *state) GetCategory(_ context.Context, id int64) (bookstore.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return bookstore.Category{}, bookstore.ErrNoRecord
	}
	return c, nil
}

func (s *state) InsertCategory(ctx context.Context, c *bookstore.Category) error {
	if taken, _ := s.CategoryExistsByName(ctx, c.Name); taken {
		return bookstore.ErrDuplicateName
	}
	s.categorySeq++
	c.ID = s.categorySeq
	s.categories[c.ID] = *c
	return nil
}

func (s *state) UpdateCategory(_ context.Context, c bookstore.Category) error {
	if _, ok := s.categories[c.ID]; !ok {
		return bookstore.ErrNoRecord
	}
	for id, other := range s.categories {
		if id != c.ID && other.Name == c.Name {
			return bookstore.ErrDuplicateName
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (s *state) FindCategories(_ context.Context, f bookstore.CategoryFilter) ([]bookstore.Category, error) {
	out := make([]bookstore.Category, 0)
	for _, c := range s.categories {
		if f.ID != nil && c.ID != *f.ID {
			continue
		}
		if f.Cursor != nil && c.ID >= *f.Cursor {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b bookstore.Category) int { return compareDesc(a.ID, b.ID) })
	return truncate(out, f.Limit), nil
}

func (s *state) CategoryNames(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if c, ok := s.categories[id]; ok {
			out[id] = c.Name
		}
	}
	return out, nil
}

// ---- books ----

func (s *state) GetBook(_ context.Context, id int64) (bookstore.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return bookstore.Book{}, bookstore.ErrNoRecord
	}
	return b, nil
}

func (s *state) InsertBook(_ context.Context, b *bookstore.Book) error {
	s.bookSeq++
	b.ID = s.bookSeq
	s.books[b.ID] = *b
	return nil
}

func (s *state) UpdateBook(_ context.Context, b bookstore.Book) error {
	if _, ok := s.books[b.ID]; !ok {
		return bookstore.ErrNoRecord
	}
	s.books[b.ID] = b
	return nil
}

func (s *state) FindBooks(_ context.Context, f bookstore.BookFilter) ([]bookstore.Book, error) {
	title := strings.ToLower(f.Title)
	author := strings.ToLower(f.Author)

	out := make([]bookstore.Book, 0)
	for _, b := range s.books {
		switch {
		case f.ID != nil && b.ID != *f.ID:
			continue
		case f.Cursor != nil && b.ID >= *f.Cursor:
			continue
		case f.CategoryID != nil && b.CategoryID != *f.CategoryID:
			continue
		case title != "" && !strings.Contains(strings.ToLower(b.Title), title):
			continue
		case author != "" && !strings.Contains(strings.ToLower(b.Author), author):
			continue
		}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b bookstore.Book) int { return compareDesc(a.ID, b.ID) })
	return truncate(out, f.Limit), nil
}

func (s *state) BooksByID(_ context.Context, ids []int64) (map[int64]bookstore.Book, error) {
	out := make(map[int64]bookstore.Book, len(ids))
	for _, id := range ids {
		if b, ok := s.books[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

// ---- cart ----

func (s *state) lineFor(userID, bookID int64) (bookstore.CartLine, bool) {
	for _, l := range s.lines {
		if l.UserID == userID && l.BookID == bookID {
			return l, true
		}
	}
	return bookstore.CartLine{}, false
}

func (s *state) MergeCartLine(_ context.Context, l *bookstore.CartLine) error {
	if l.Quantity > bookstore.MaxQuantity {
		return bookstore.ErrQuantityOverflow
	}
	if cur, ok := s.lineFor(l.UserID, l.BookID); ok {
		if cur.Quantity > bookstore.MaxQuantity-l.Quantity {
			return bookstore.ErrQuantityOverflow
		}
		cur.Quantity += l.Quantity
		cur.UpdatedTime = l.UpdatedTime
		s.lines[cur.ID] = cur
		*l = cur
		return nil
	}
	s.lineSeq++
	l.ID = s.lineSeq
	s.lines[l.ID] = *l
	return nil
}

func (s *state) GetCartLineForUpdate(_ context.Context, userID, bookID int64) (bookstore.CartLine, error) {
	l, ok := s.lineFor(userID, bookID)
	if !ok {
		return bookstore.CartLine{}, bookstore.ErrNoRecord
	}
	return l, nil
}

func (s *state) UpdateCartLine(_ context.Context, l bookstore.CartLine) error {
	if _, ok := s.lines[l.ID]; !ok {
		return bookstore.ErrNoRecord
	}
	s.lines[l.ID] = l
	return nil
}

func (s *state) DeleteCartLine(_ context.Context, userID, bookID int64) (int64, error) {
	l, ok := s.lineFor(userID, bookID)
	if !ok {
		return 0, nil
	}
	delete(s.lines, l.ID)
	return 1, nil
}

func (s *state) FindCartLines(_ context.Context, f bookstore.CartFilter) ([]bookstore.CartLine, error) {
	out := make([]bookstore.CartLine, 0)
	for _, l := range s.lines {
		if l.UserID != f.UserID {
			continue
		}
		if f.Cursor != nil && l.ID >= *f.Cursor {
			continue
		}
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b bookstore.CartLine) int { return compareDesc(a.ID, b.ID) })
	return truncate(out, f.Limit), nil
}

func (s *state) CartLinesByUser(_ context.Context, userID int64) ([]bookstore.CartLine, error) {
	out := make([]bookstore.CartLine, 0)
	for _, l := range s.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b bookstore.CartLine) int { return compareDesc(b.ID, a.ID) })
	return out, nil
}

func compareDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
