package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentStatus(t *testing.T) {
	got, err := ParsePaymentStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, got)
	assert.True(t, got.IsValid())

	_, err = ParsePaymentStatus("settled")
	assert.Error(t, err)
	assert.False(t, PaymentStatus("settled").IsValid())
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, got)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestNormalizeMenuCategory(t *testing.T) {
	assert.Equal(t, MenuCategoryOnRice, NormalizeMenuCategory(" on rice "))
	assert.Equal(t, MenuCategoryNigiri, NormalizeMenuCategory("Nigiri"))
	assert.Equal(t, MenuCategoryOther, NormalizeMenuCategory("Drinks"))
	assert.Equal(t, MenuCategoryOther, NormalizeMenuCategory(""))
}

func TestMenuCategoryRank(t *testing.T) {
	assert.Equal(t, 0, MenuCategoryOnRice.Rank())
	assert.Equal(t, 5, MenuCategoryOther.Rank())
	assert.Equal(t, len(MenuCategoryOrder), MenuCategory("Drinks").Rank())
}
