package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/narusushi/lunch-backend/internal/cart"
	"github.com/narusushi/lunch-backend/pkg/db/models"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	"github.com/narusushi/lunch-backend/pkg/enums"
)

// CustomerInfo is the parent contact block entered at checkout.
type CustomerInfo struct {
	ParentName  string `json:"parentName" validate:"required"`
	ParentEmail string `json:"parentEmail" validate:"required,email"`
	Phone       string `json:"phone"`
}

// CreateInput is a checkout submission.
type CreateInput struct {
	Lines           []cart.Line
	Customer        CustomerInfo
	PaymentIntentID string
	// TotalAmount is the client-side figure, echoed back unchanged.
	TotalAmount *float64
	// CartSession, when set and Lines is empty, sources lines from the
	// server cart and clears it on success.
	CartSession string
}

// BatchResult is the outcome of a checkout.
type BatchResult struct {
	OrderNumber string     `json:"orderNumber"`
	Orders      []OrderDTO `json:"orders"`
	TotalAmount float64    `json:"totalAmount"`
}

type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	StudentName     string              `json:"studentName"`
	Room            string              `json:"room"`
	School          string              `json:"school"`
	Date            dbtypes.Date        `json:"date"`
	DeliveryDate    dbtypes.Date        `json:"deliveryDate"`
	ParentName      string              `json:"parentName"`
	ParentEmail     string              `json:"parentEmail"`
	Phone           *string             `json:"phone"`
	TotalAmount     float64             `json:"totalAmount"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	PaymentIntentID string              `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Items           []OrderItemDTO      `json:"items"`
}

type OrderItemDTO struct {
	ID             uuid.UUID    `json:"id"`
	MenuItemID     *uuid.UUID   `json:"menuItemId,omitempty"`
	Name           string       `json:"name"`
	Quantity       int          `json:"quantity"`
	UnitPrice      float64      `json:"unitPrice"`
	Subtotal       float64      `json:"subtotal"`
	RiceType       *string      `json:"riceType"`
	SpecialNotes   *string      `json:"specialNotes"`
	DeliveryDate   dbtypes.Date `json:"deliveryDate"`
	Customizations []string     `json:"customizations"`
}

// Reconcile fills rice type and special notes from the legacy customizations
// list for rows written before those columns existed. The first entry is the
// rice type and the rest are notes. Rows that already carry notes pass
// through unchanged.
func Reconcile(riceType, specialNotes *string, customizations []string) (*string, *string) {
	if len(customizations) == 0 || nonEmpty(specialNotes) {
		return riceType, specialNotes
	}
	if customizations[0] != "" && !nonEmpty(riceType) {
		first := customizations[0]
		riceType = &first
	}
	if len(customizations) > 1 {
		notes := strings.Join(customizations[1:], "\n")
		specialNotes = &notes
	}
	return riceType, specialNotes
}

// LegacyCustomizations is the [riceType, notes] form with empties removed.
func LegacyCustomizations(riceType, notes string) []string {
	out := make([]string, 0, 2)
	for _, v := range []string{riceType, notes} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toOrderDTO(o models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, toOrderItemDTO(item))
	}
	return OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		StudentName:     o.StudentName,
		Room:            o.Room,
		School:          o.School,
		Date:            o.Date,
		DeliveryDate:    o.DeliveryDate,
		ParentName:      o.ParentName,
		ParentEmail:     o.ParentEmail,
		Phone:           o.Phone,
		TotalAmount:     money(o.TotalAmount),
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           items,
	}
}

func toOrderItemDTO(item models.OrderItem) OrderItemDTO {
	customizations := []string(item.Customizations)
	if customizations == nil {
		customizations = []string{}
	}
	riceType, notes := Reconcile(item.RiceType, item.SpecialNotes, customizations)
	return OrderItemDTO{
		ID:             item.ID,
		MenuItemID:     item.MenuItemID,
		Name:           item.ItemName,
		Quantity:       item.Quantity,
		UnitPrice:      money(item.UnitPrice),
		Subtotal:       money(item.Subtotal),
		RiceType:       riceType,
		SpecialNotes:   notes,
		DeliveryDate:   item.DeliveryDate,
		Customizations: customizations,
	}
}

func toOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrderDTO(row))
	}
	return out
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
