package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
)

// MenuItemSnapshot is the menu item as it looked when the line was added.
type MenuItemSnapshot struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category,omitempty"`
}

// Line is one cart entry: an item, a quantity, and who it is delivered to.
type Line struct {
	CartID       string           `json:"cartId"`
	MenuItem     MenuItemSnapshot `json:"menuItem"`
	Quantity     int              `json:"quantity"`
	RiceType     string           `json:"riceType,omitempty"`
	DeliveryDate dbtypes.Date     `json:"deliveryDate"`
	School       string           `json:"school"`
	StudentName  string           `json:"studentName"`
	RoomNumber   string           `json:"roomNumber"`
	Notes        string           `json:"notes,omitempty"`
	TotalPrice   decimal.Decimal  `json:"totalPrice"`
	AddedAt      time.Time        `json:"addedAt"`
}

// LineTotal is the unit price times quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Summary is what the cart badge and checkout page display.
type Summary struct {
	Items     []Line          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

// Summarize totals lines. ItemCount is the sum of quantities.
func Summarize(lines []Line) Summary {
	if lines == nil {
		lines = []Line{}
	}
	out := Summary{Items: lines, Subtotal: decimal.Zero}
	for _, line := range lines {
		out.Subtotal = out.Subtotal.Add(line.TotalPrice)
		out.ItemCount += line.Quantity
	}
	return out
}
