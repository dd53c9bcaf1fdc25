package todo

import (
	"context"
	"slices"
	"strings"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/normalize"
)

// CategoryPatch is a partial category update. Nil fields are left untouched.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

// ListCategories returns every category in display order.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Categories(), nil
}

// CreateCategory adds a category. The name is required and must not match an
// existing category; color and icon fall back to the first palette entries.
func (s *Service) CreateCategory(ctx context.Context, name, color, icon string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrCategoryNameRequired
	}
	if s.nameTaken(name, "") {
		return nil, domain.ErrCategoryNameExists
	}

	now := s.config.Now()
	c := normalize.Category(&domain.Category{
		ID:    s.config.NewID(),
		Name:  name,
		Color: color,
		Icon:  icon,
	}, now)

	s.categories = append(s.categories, *c)
	s.persistCategories(ctx)

	out := *c
	return &out, nil
}

// UpdateCategory applies patch to a category.
// Returns domain.ErrCategoryNotFound if the category doesn't exist.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*domain.Category, error) {
	i := slices.IndexFunc(s.categories, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, domain.ErrCategoryNotFound
	}

	c := s.categories[i]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.ErrCategoryNameRequired
		}
		if s.nameTaken(name, id) {
			return nil, domain.ErrCategoryNameExists
		}
		c.Name = name
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}

	now := s.config.Now()
	c.UpdatedAt = datetime.FormatInstant(now)
	s.categories[i] = *normalize.Category(&c, now)
	s.persistCategories(ctx)

	out := s.categories[i]
	return &out, nil
}

// DeleteCategory removes a category and moves its tasks to the first
// remaining category.
// Returns domain.ErrCategoryNotFound if the category doesn't exist and
// domain.ErrLastCategory if it is the only one left.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	i := slices.IndexFunc(s.categories, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return domain.ErrCategoryNotFound
	}
	if len(s.categories) == 1 {
		return domain.ErrLastCategory
	}

	s.categories = slices.Delete(s.categories, i, i+1)
	s.persistCategories(ctx)

	now := s.config.Now()
	stamp := datetime.FormatInstant(now)
	moved := 0
	for j, t := range s.tasks {
		if t.CategoryID != id {
			continue
		}
		t = t.Clone()
		t.CategoryID = ""
		t.UpdatedAt = stamp
		s.tasks[j] = normalize.Task(t, s.categories, now)
		moved++
	}
	if moved > 0 {
		s.persistTasks(ctx)
	}
	return nil
}

// CategoryUsage counts tasks per category id.
func (s *Service) CategoryUsage(ctx context.Context) map[string]int {
	usage := make(map[string]int, len(s.categories))
	for _, c := range s.categories {
		usage[c.ID] = 0
	}
	for _, t := range s.tasks {
		usage[t.CategoryID]++
	}
	return usage
}

func (s *Service) nameTaken(name, exceptID string) bool {
	return slices.ContainsFunc(s.categories, func(c domain.Category) bool {
		return c.ID != exceptID && c.Name == name
	})
}
