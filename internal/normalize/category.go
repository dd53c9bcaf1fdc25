package normalize

import (
	"strings"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
)

// Category returns the canonical form of raw, or nil for nil input.
func Category(raw *domain.Category, now time.Time) *domain.Category {
	if raw == nil {
		return nil
	}

	c := *raw
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = domain.UnnamedCategory
	}
	c.Color = strings.TrimSpace(c.Color)
	if c.Color == "" {
		c.Color = domain.ColorOptions[0]
	}
	c.Icon = strings.TrimSpace(c.Icon)
	if c.Icon == "" {
		c.Icon = domain.IconOptions[0]
	}

	c.CreatedAt = datetime.CanonicalInstant(c.CreatedAt)
	if c.CreatedAt == "" {
		c.CreatedAt = datetime.FormatInstant(now)
	}
	c.UpdatedAt = datetime.CanonicalInstant(c.UpdatedAt)
	if c.UpdatedAt == "" {
		c.UpdatedAt = c.CreatedAt
	}
	return &c
}

// Categories normalizes a collection, dropping entries without an id and
// later duplicates of an id.
func Categories(raw []*domain.Category, now time.Time) []domain.Category {
	out := make([]domain.Category, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, rc := range raw {
		c := Category(rc, now)
		if c == nil || c.ID == "" {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, *c)
	}
	return out
}
