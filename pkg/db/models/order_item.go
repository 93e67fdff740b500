package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
)

// OrderItem snapshots a cart line at checkout. Customizations is the legacy
// [riceType, notes] list kept for rows written before rice_type and
// special_notes existed.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	MenuItemID     *uuid.UUID      `gorm:"column:menu_item_id;type:uuid"`
	ItemName       string          `gorm:"column:item_name;not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	RiceType       *string         `gorm:"column:rice_type"`
	SpecialNotes   *string         `gorm:"column:special_notes"`
	DeliveryDate   dbtypes.Date    `gorm:"column:delivery_date"`
	Customizations pq.StringArray  `gorm:"column:customizations;type:text[]"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
