package orders

import (
	"strings"

	"github.com/google/uuid"

	"github.com/narusushi/lunch-backend/internal/cart"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

// LineViolation describes why a cart line cannot be ordered.
type LineViolation struct {
	Index  int    `json:"index"`
	CartID string `json:"cartId,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidateLines checks every line before anything is written. All violations
// are reported together. Delivery details other than the date are optional
// here; they only shape the grouping key.
func ValidateLines(lines []cart.Line) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").
			WithDetails(map[string]string{"cart": "is required"})
	}

	var violations []LineViolation
	add := func(i int, line cart.Line, field, reason string) {
		violations = append(violations, LineViolation{Index: i, CartID: line.CartID, Field: field, Reason: reason})
	}
	for i, line := range lines {
		if line.MenuItem.ID == uuid.Nil || strings.TrimSpace(line.MenuItem.Name) == "" {
			add(i, line, "menuItem", "menu item is required")
		}
		if line.MenuItem.Price.IsNegative() {
			add(i, line, "menuItem.price", "price must not be negative")
		}
		if line.Quantity < 1 {
			add(i, line, "quantity", "quantity must be at least 1")
		}
		if line.DeliveryDate.IsZero() {
			add(i, line, "deliveryDate", "delivery date is required")
		}
	}

	if len(violations) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains invalid items").WithDetails(violations)
	}
	return nil
}

// ValidateCustomer checks the checkout contact block.
func ValidateCustomer(c CustomerInfo) error {
	details := map[string]string{}
	if strings.TrimSpace(c.ParentName) == "" {
		details["customerInfo.parentName"] = "is required"
	}
	if strings.TrimSpace(c.ParentEmail) == "" {
		details["customerInfo.parentEmail"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").WithDetails(details)
	}
	return nil
}
