package bookstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/rs/zerolog"
)

type CategoryService struct {
	*core
	log zerolog.Logger
}

// Create adds a category with a name no other category uses.
func (s *CategoryService) Create(ctx context.Context, name string) (CategoryView, error) {
	var c Category
	err := s.repo.InTx(ctx, func(q Queries) error {
		exists, err := q.CategoryExistsByName(ctx, name)
		if err != nil {
			return fmt.Errorf("category exists by name: %w", err)
		}
		if exists {
			s.log.Info().Str("name", name).Msg("create rejected, name already exists")
			return apperr.AlreadyExists(name)
		}

		now := s.clock()
		c = Category{
			Name:        name,
			CreatedBy:   SystemActor,
			UpdatedBy:   SystemActor,
			CreatedTime: now,
			UpdatedTime: now,
		}
		if err := q.InsertCategory(ctx, &c); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				return apperr.AlreadyExists(name)
			}
			return fmt.Errorf("insert category: %w", err)
		}
		return nil
	})
	if err != nil {
		return CategoryView{}, err
	}

	s.emit(ctx, events.CategoryCreated, events.CategoryKey(c.ID), events.CategoryPayload{CategoryID: c.ID, Name: c.Name})
	return categoryView(c), nil
}

// Update renames a category. Renaming to the current name is a no-op.
func (s *CategoryService) Update(ctx context.Context, id int64, name string) (CategoryView, error) {
	var (
		c       Category
		renamed bool
	)
	err := s.repo.InTx(ctx, func(q Queries) error {
		var err error
		c, err = q.GetCategory(ctx, id)
		if errors.Is(err, ErrNoRecord) {
			return apperr.NotFound(fmt.Sprintf("id=%d", id))
		}
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}
		if c.Name == name {
			return nil
		}

		exists, err := q.CategoryExistsByName(ctx, name)
		if err != nil {
			return fmt.Errorf("category exists by name: %w", err)
		}
		if exists {
			s.log.Info().Int64("category_id", id).Str("name", name).Msg("update rejected, name already exists")
			return apperr.AlreadyExists(name)
		}

		c.Name = name
		c.UpdatedBy = SystemActor
		c.UpdatedTime = s.clock()
		if err := q.UpdateCategory(ctx, c); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				return apperr.AlreadyExists(name)
			}
			return fmt.Errorf("update category: %w", err)
		}
		renamed = true
		return nil
	})
	if err != nil {
		return CategoryView{}, err
	}

	if renamed {
		s.emit(ctx, events.CategoryRenamed, events.CategoryKey(c.ID), events.CategoryPayload{CategoryID: c.ID, Name: c.Name})
	}
	return categoryView(c), nil
}

// Query lists categories by descending id.
func (s *CategoryService) Query(ctx context.Context, f CategoryFilter) ([]CategoryView, error) {
	f.Limit = clampLimit(f.Limit, DefaultCategoryLimit, MaxCategoryLimit)

	var rows []Category
	err := s.repo.View(ctx, func(q Queries) error {
		var err error
		rows, err = q.FindCategories(ctx, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}

	out := make([]CategoryView, 0, len(rows))
	for _, c := range rows {
		out = append(out, categoryView(c))
	}
	return out, nil
}
