package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/narusushi/lunch-backend/internal/repo"
	"github.com/narusushi/lunch-backend/pkg/db/models"
)

// Repository reads the menu and school catalog.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// ListMenuItems returns every menu item ordered by category, then name.
func (r *Repository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var rows []models.MenuItem
	err := r.base.DB(ctx).
		Order("category ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveSchools returns active schools ordered by name.
func (r *Repository) ListActiveSchools(ctx context.Context) ([]models.School, error) {
	var rows []models.School
	err := r.base.DB(ctx).
		Select("id", "name", "address").
		Where("active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMenuCategories returns name -> category for every menu item.
func (r *Repository) ListMenuCategories(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Name     string
		Category string
	}
	err := r.base.DB(ctx).
		Model(&models.MenuItem{}).
		Select("name", "category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Category
	}
	return out, nil
}
