package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/narusushi/lunch-backend/pkg/enums"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
)

// Order is one (delivery date, student, school, room) group from a checkout.
// Orders from the same checkout share OrderNumber and PaymentIntentID.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null"`
	StudentName     string              `gorm:"column:student_name;not null"`
	Room            string              `gorm:"column:room;not null"`
	School          string              `gorm:"column:school;not null"`
	Date            dbtypes.Date        `gorm:"column:date"`
	DeliveryDate    dbtypes.Date        `gorm:"column:delivery_date;not null"`
	ParentName      string              `gorm:"column:parent_name;not null"`
	ParentEmail     string              `gorm:"column:parent_email;not null"`
	Phone           *string             `gorm:"column:phone"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentIntentID string              `gorm:"column:payment_intent_id;not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

func (Order) TableName() string { return "orders" }
