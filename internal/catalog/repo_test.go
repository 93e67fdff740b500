package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/narusushi/lunch-backend/pkg/db/dbtest"
	"github.com/narusushi/lunch-backend/pkg/db/models"
)

func seedMenuItem(t *testing.T, db *gorm.DB, name, category, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedSchool(t *testing.T, db *gorm.DB, name string, active bool) {
	t.Helper()
	school := models.School{ID: uuid.New(), Name: name, Active: true}
	require.NoError(t, db.Create(&school).Error)
	if !active {
		require.NoError(t, db.Model(&models.School{}).Where("id = ?", school.ID).Update("active", false).Error)
	}
}

func TestListMenuItemsOrdersByCategory(t *testing.T) {
	db := dbtest.Open(t)
	seedMenuItem(t, db, "Salmon Nigiri", "Nigiri", "6.00")
	seedMenuItem(t, db, "Salmon Roll", "Maki", "8.50")
	seedMenuItem(t, db, "Avocado Roll", "Maki", "7.00")

	rows, err := NewRepository(db).ListMenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Avocado Roll", rows[0].Name)
	assert.Equal(t, "Salmon Roll", rows[1].Name)
	assert.Equal(t, "Nigiri", rows[2].Category)
	assert.True(t, rows[1].Price.Equal(decimal.RequireFromString("8.50")))
}

func TestListActiveSchools(t *testing.T) {
	db := dbtest.Open(t)
	seedSchool(t, db, "Westmere School", true)
	seedSchool(t, db, "Closed School", false)
	seedSchool(t, db, "Bayfield School", true)

	rows, err := NewRepository(db).ListActiveSchools(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bayfield School", rows[0].Name)
	assert.Equal(t, "Westmere School", rows[1].Name)
}

func TestListMenuCategories(t *testing.T) {
	db := dbtest.Open(t)
	seedMenuItem(t, db, "Salmon Roll", "Maki", "8.50")
	seedMenuItem(t, db, "Teriyaki Don", "On Rice", "11.00")

	got, err := NewRepository(db).ListMenuCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Salmon Roll": "Maki", "Teriyaki Don": "On Rice"}, got)
}
