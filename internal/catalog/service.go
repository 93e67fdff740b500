package catalog

import (
	"context"
	"fmt"

	"github.com/narusushi/lunch-backend/pkg/db/models"
	"github.com/narusushi/lunch-backend/pkg/enums"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

type catalogRepository interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	ListActiveSchools(ctx context.Context) ([]models.School, error)
	ListMenuCategories(ctx context.Context) (map[string]string, error)
}

// Service is the read-only catalog surface.
type Service interface {
	ListMenu(ctx context.Context) ([]MenuItemDTO, error)
	ListSchools(ctx context.Context) ([]SchoolDTO, error)
	// CategoryIndex maps item names to their current menu category.
	CategoryIndex(ctx context.Context) (map[string]enums.MenuCategory, error)
}

type service struct {
	repo catalogRepository
}

func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMenu(ctx context.Context) ([]MenuItemDTO, error) {
	rows, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu items")
	}
	out := make([]MenuItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMenuItemDTO(row))
	}
	return out, nil
}

func (s *service) ListSchools(ctx context.Context) ([]SchoolDTO, error) {
	rows, err := s.repo.ListActiveSchools(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list schools")
	}
	out := make([]SchoolDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSchoolDTO(row))
	}
	return out, nil
}

func (s *service) CategoryIndex(ctx context.Context) (map[string]enums.MenuCategory, error) {
	raw, err := s.repo.ListMenuCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu categories")
	}
	out := make(map[string]enums.MenuCategory, len(raw))
	for name, category := range raw {
		out[name] = enums.NormalizeMenuCategory(category)
	}
	return out, nil
}
