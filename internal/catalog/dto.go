package catalog

import (
	"github.com/google/uuid"

	"github.com/narusushi/lunch-backend/pkg/db/models"
)

type MenuItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url"`
}

type SchoolDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address *string   `json:"address"`
}

func toMenuItemDTO(m models.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price.Round(2).InexactFloat64(),
		Category:    m.Category,
		ImageURL:    m.ImageURL,
	}
}

func toSchoolDTO(s models.School) SchoolDTO {
	return SchoolDTO{ID: s.ID, Name: s.Name, Address: s.Address}
}
