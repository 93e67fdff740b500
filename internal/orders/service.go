package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narusushi/lunch-backend/internal/cart"
	"github.com/narusushi/lunch-backend/internal/delivery"
	"github.com/narusushi/lunch-backend/pkg/db/models"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	"github.com/narusushi/lunch-backend/pkg/enums"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	Items(ctx context.Context, session string) ([]cart.Line, error)
	Clear(ctx context.Context, session string) error
}

// Service creates and reads orders.
type Service interface {
	CreateOrders(ctx context.Context, input CreateInput) (*BatchResult, error)
	ListOrders(ctx context.Context, filters Filters) ([]OrderDTO, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) ([]OrderDTO, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	carts   cartSource
	cutoff  *delivery.Policy
	numbers NumberGenerator
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

type ServiceOption func(*service)

// WithCartSource lets checkout fall back to the server-side cart.
func WithCartSource(c cartSource) ServiceOption {
	return func(s *service) { s.carts = c }
}

// WithCutoff rejects lines whose delivery date has closed.
func WithCutoff(p delivery.Policy) ServiceOption {
	return func(s *service) { s.cutoff = &p }
}

func WithNumberGenerator(gen NumberGenerator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.numbers = gen
		}
	}
}

func WithMetrics(m *metrics.OrderMetrics) ServiceOption {
	return func(s *service) { s.metrics = m }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the orders service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger, opts ...ServiceOption) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		tx:      tx,
		repo:    repo,
		logg:    logg,
		numbers: NewNumberGenerator(defaultNumberPrefix),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) CreateOrders(ctx context.Context, input CreateInput) (result *BatchResult, err error) {
	defer func() {
		n := 0
		if result != nil {
			n = len(result.Orders)
		}
		s.metrics.ObserveBatch(n, err)
	}()

	lines, fromSession, err := s.resolveLines(ctx, input)
	if err != nil {
		return nil, err
	}
	paymentIntentID := strings.TrimSpace(input.PaymentIntentID)
	if paymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").
			WithDetails(map[string]string{"paymentIntentId": "is required"})
	}
	if err := ValidateCustomer(input.Customer); err != nil {
		return nil, err
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	now := s.now()
	if s.cutoff != nil {
		for _, line := range lines {
			if err := s.cutoff.Check(now, line.DeliveryDate); err != nil {
				return nil, err
			}
		}
	}

	groups := GroupCartLines(lines)
	orderNumber := s.numbers(now)
	ctx = s.logg.WithOrderNumber(ctx, orderNumber)

	created := make([]models.Order, 0, len(groups))
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, group := range groups {
			order := buildOrder(orderNumber, paymentIntentID, input.Customer, group)
			if err := repo.CreateOrder(ctx, &order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
			}
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		s.logg.Error(ctx, "checkout failed", err)
		return nil, err
	}

	if fromSession {
		if err := s.carts.Clear(ctx, input.CartSession); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("clear cart after checkout: %v", err))
		}
	}

	total := money(BatchTotal(groups))
	if input.TotalAmount != nil {
		total = *input.TotalAmount
	}
	s.logg.Info(ctx, fmt.Sprintf("created %d orders", len(created)))
	return &BatchResult{
		OrderNumber: orderNumber,
		Orders:      toOrderDTOs(created),
		TotalAmount: total,
	}, nil
}

// resolveLines prefers the submitted cart and falls back to the session cart.
func (s *service) resolveLines(ctx context.Context, input CreateInput) ([]cart.Line, bool, error) {
	if len(input.Lines) > 0 {
		return input.Lines, false, nil
	}
	if s.carts == nil || strings.TrimSpace(input.CartSession) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").
			WithDetails(map[string]string{"cart": "is required"})
	}
	lines, err := s.carts.Items(ctx, input.CartSession)
	if err != nil {
		return nil, false, err
	}
	if len(lines) == 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").
			WithDetails(map[string]string{"cart": "is empty"})
	}
	return lines, true, nil
}

func buildOrder(orderNumber, paymentIntentID string, customer CustomerInfo, group Group) models.Order {
	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(group.Lines))
	for _, line := range group.Lines {
		menuItemID := line.MenuItem.ID
		items = append(items, models.OrderItem{
			ID:             uuid.New(),
			OrderID:        orderID,
			MenuItemID:     &menuItemID,
			ItemName:       line.MenuItem.Name,
			UnitPrice:      line.MenuItem.Price,
			Quantity:       line.Quantity,
			Subtotal:       cart.LineTotal(line.MenuItem.Price, line.Quantity),
			RiceType:       optional(line.RiceType),
			SpecialNotes:   optional(line.Notes),
			DeliveryDate:   line.DeliveryDate,
			Customizations: LegacyCustomizations(strings.TrimSpace(line.RiceType), strings.TrimSpace(line.Notes)),
		})
	}
	return models.Order{
		ID:              orderID,
		OrderNumber:     orderNumber,
		StudentName:     group.Key.StudentName,
		Room:            group.Key.RoomNumber,
		School:          group.Key.School,
		Date:            group.Key.DeliveryDate,
		DeliveryDate:    group.Key.DeliveryDate,
		ParentName:      strings.TrimSpace(customer.ParentName),
		ParentEmail:     strings.TrimSpace(customer.ParentEmail),
		Phone:           optional(customer.Phone),
		TotalAmount:     group.Total,
		PaymentStatus:   enums.PaymentStatusPending,
		Status:          enums.OrderStatusPending,
		PaymentIntentID: paymentIntentID,
		Items:           items,
	}
}

func (s *service) ListOrders(ctx context.Context, filters Filters) ([]OrderDTO, error) {
	rows, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toOrderDTOs(rows), nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) ([]OrderDTO, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	rows, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find orders")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	return toOrderDTOs(rows), nil
}

// ParseFilters reads the optional deliveryDate and school query values.
func ParseFilters(deliveryDate, school string) (Filters, error) {
	var f Filters
	if v := strings.TrimSpace(deliveryDate); v != "" {
		d, err := dbtypes.ParseDate(v)
		if err != nil {
			return Filters{}, pkgerrors.New(pkgerrors.CodeValidation, "deliveryDate must be YYYY-MM-DD").
				WithDetails(map[string]string{"deliveryDate": v})
		}
		f.DeliveryDate = &d
	}
	f.School = strings.TrimSpace(school)
	return f, nil
}
