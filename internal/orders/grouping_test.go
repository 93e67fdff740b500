package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narusushi/lunch-backend/internal/cart"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

func line(name, price string, qty int, student string, date dbtypes.Date) cart.Line {
	return cart.Line{
		CartID:       uuid.NewString(),
		MenuItem:     cart.MenuItemSnapshot{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price)},
		Quantity:     qty,
		DeliveryDate: date,
		School:       "Westmere School",
		StudentName:  student,
		RoomNumber:   "12",
	}
}

func TestGroupCartLinesPreservesFirstSeenOrder(t *testing.T) {
	mon := dbtypes.NewDate(2025, 5, 12)
	tue := dbtypes.NewDate(2025, 5, 13)
	lines := []cart.Line{
		line("Salmon Roll", "8.50", 2, "Aroha", tue),
		line("Chicken Katsu", "9.00", 1, "Mia", mon),
		line("Tuna Nigiri", "6.00", 1, "Aroha", tue),
		line("Teriyaki Don", "11.00", 1, "Aroha", mon),
	}

	groups := GroupCartLines(lines)
	require.Len(t, groups, 3)

	assert.Equal(t, GroupKey{DeliveryDate: tue, StudentName: "Aroha", School: "Westmere School", RoomNumber: "12"}, groups[0].Key)
	assert.Equal(t, "Mia", groups[1].Key.StudentName)
	assert.Equal(t, mon, groups[2].Key.DeliveryDate)

	require.Len(t, groups[0].Lines, 2)
	assert.Equal(t, "Salmon Roll", groups[0].Lines[0].MenuItem.Name)
	assert.Equal(t, "Tuna Nigiri", groups[0].Lines[1].MenuItem.Name)
	assert.True(t, groups[0].Total.Equal(decimal.RequireFromString("23.00")))
	assert.True(t, BatchTotal(groups).Equal(decimal.RequireFromString("43.00")))
}

func TestGroupCartLinesSplitsOnRoom(t *testing.T) {
	d := dbtypes.NewDate(2025, 5, 12)
	a := line("Salmon Roll", "8.50", 1, "Aroha", d)
	b := line("Salmon Roll", "8.50", 1, "Aroha", d)
	b.RoomNumber = "14"

	assert.Len(t, GroupCartLines([]cart.Line{a, b}), 2)
}

func TestGroupCartLinesIgnoresClientTotals(t *testing.T) {
	l := line("Salmon Roll", "8.50", 2, "Aroha", dbtypes.NewDate(2025, 5, 12))
	l.TotalPrice = decimal.RequireFromString("1.00")

	groups := GroupCartLines([]cart.Line{l})
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Total.Equal(decimal.RequireFromString("17.00")))
}

func TestValidateLinesReportsEveryViolation(t *testing.T) {
	bad := line("", "8.50", 0, "Aroha", dbtypes.Date{})
	bad.MenuItem.ID = uuid.Nil
	good := line("Salmon Roll", "8.50", 1, "Aroha", dbtypes.NewDate(2025, 5, 12))

	err := ValidateLines([]cart.Line{good, bad})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	violations := typed.Details().([]LineViolation)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		assert.Equal(t, 1, v.Index)
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"menuItem", "quantity", "deliveryDate"}, fields)
}

func TestValidateLinesAllowsBlankDeliveryDetails(t *testing.T) {
	l := line("Salmon Roll", "8.50", 1, "", dbtypes.NewDate(2025, 5, 12))
	l.School = ""
	l.RoomNumber = ""

	assert.NoError(t, ValidateLines([]cart.Line{l}))
	assert.Len(t, GroupCartLines([]cart.Line{l}), 1)
}

func TestValidateLinesRejectsEmptyCart(t *testing.T) {
	assert.True(t, pkgerrors.HasCode(ValidateLines(nil), pkgerrors.CodeValidation))
}

func TestFormatOrderNumber(t *testing.T) {
	now := time.UnixMilli(1736500000123)
	assert.Equal(t, "NS1736500000123007", FormatOrderNumber("NS", now, 7))
	assert.Equal(t, "NS1736500000123999", FormatOrderNumber("NS", now, 999))

	gen := NewNumberGenerator("")
	assert.Regexp(t, `^NS1736500000123\d{3}$`, gen(now))
}
