package orders

import (
	"context"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/narusushi/lunch-backend/internal/repo"
	"github.com/narusushi/lunch-backend/pkg/db/models"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	"github.com/narusushi/lunch-backend/pkg/enums"
)

// Filters narrows the admin order list. Zero values match everything.
type Filters struct {
	DeliveryDate *dbtypes.Date
	School       string
}

// ProductionRow is an order item joined with its order's delivery context.
type ProductionRow struct {
	ItemName       string
	Quantity       int
	RiceType       *string
	SpecialNotes   *string
	Customizations []string
	DeliveryDate   dbtypes.Date
	School         string
}

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, filters Filters) ([]models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) ([]models.Order, error)
	ListByPaymentIntent(ctx context.Context, paymentIntentID string) ([]models.Order, error)
	UpdatePaymentByIntent(ctx context.Context, paymentIntentID string, paymentStatus enums.PaymentStatus, status *enums.OrderStatus, now time.Time) (int64, error)
	ListProductionRows(ctx context.Context, school string) ([]ProductionRow, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.WithTx(tx)}
}

// CreateOrder inserts the order row and then its items.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := r.base.DB(ctx).Omit("Items").Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return r.base.DB(ctx).Create(&order.Items).Error
}

// ListOrders returns orders newest delivery first with their items.
func (r *repository) ListOrders(ctx context.Context, filters Filters) ([]models.Order, error) {
	q := r.base.DB(ctx).Model(&models.Order{}).Preload("Items", orderItemsByCreation)
	if filters.DeliveryDate != nil {
		q = q.Where("delivery_date = ?", filters.DeliveryDate.String())
	}
	if filters.School != "" {
		q = q.Where("school = ?", filters.School)
	}

	var rows []models.Order
	if err := q.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByOrderNumber returns every order in the batch. An unknown number
// yields an empty slice.
func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) ([]models.Order, error) {
	var rows []models.Order
	err := r.base.DB(ctx).
		Preload("Items", orderItemsByCreation).
		Where("order_number = ?", orderNumber).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByPaymentIntent returns the orders paid for by a single payment intent.
func (r *repository) ListByPaymentIntent(ctx context.Context, paymentIntentID string) ([]models.Order, error) {
	var rows []models.Order
	err := r.base.DB(ctx).
		Preload("Items", orderItemsByCreation).
		Where("payment_intent_id = ?", paymentIntentID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePaymentByIntent sets status fields on all orders sharing the intent
// and reports how many rows changed.
func (r *repository) UpdatePaymentByIntent(
	ctx context.Context,
	paymentIntentID string,
	paymentStatus enums.PaymentStatus,
	status *enums.OrderStatus,
	now time.Time,
) (int64, error) {
	updates := map[string]any{
		"payment_status": paymentStatus,
		"updated_at":     now.UTC(),
	}
	if status != nil {
		updates["status"] = *status
	}
	res := r.base.DB(ctx).
		Model(&models.Order{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// ListProductionRows returns every order item with its order's delivery date
// and school, optionally limited to one school.
func (r *repository) ListProductionRows(ctx context.Context, school string) ([]ProductionRow, error) {
	type row struct {
		ItemName       string
		Quantity       int
		RiceType       *string
		SpecialNotes   *string
		Customizations pq.StringArray
		DeliveryDate   dbtypes.Date
		School         string
	}

	q := r.base.DB(ctx).
		Table("order_items AS oi").
		Select("oi.item_name, oi.quantity, oi.rice_type, oi.special_notes, oi.customizations, o.delivery_date, o.school").
		Joins("JOIN orders AS o ON o.id = oi.order_id")
	if school != "" {
		q = q.Where("o.school = ?", school)
	}

	var rows []row
	if err := q.Order("o.created_at ASC").Order("oi.created_at ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ProductionRow, 0, len(rows))
	for _, rw := range rows {
		out = append(out, ProductionRow{
			ItemName:       rw.ItemName,
			Quantity:       rw.Quantity,
			RiceType:       rw.RiceType,
			SpecialNotes:   rw.SpecialNotes,
			Customizations: []string(rw.Customizations),
			DeliveryDate:   rw.DeliveryDate,
			School:         rw.School,
		})
	}
	return out, nil
}

func orderItemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
