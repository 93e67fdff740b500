package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/narusushi/lunch-backend/internal/delivery"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

const maxSessionIDLength = 128

// AddInput is a new line as entered on the menu page.
type AddInput struct {
	MenuItem     MenuItemSnapshot
	Quantity     int
	RiceType     string
	DeliveryDate dbtypes.Date
	School       string
	StudentName  string
	RoomNumber   string
	Notes        string
}

// Store is a session-scoped cart persisted through a Storage port.
type Store struct {
	storage Storage
	cutoff  *delivery.Policy
	now     func() time.Time
	newID   func(time.Time) string
}

type StoreOption func(*Store)

// WithCutoff rejects lines whose delivery date is past the ordering cutoff.
func WithCutoff(p delivery.Policy) StoreOption {
	return func(s *Store) { s.cutoff = &p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(storage Storage, opts ...StoreOption) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	s := &Store{storage: storage, now: time.Now, newID: newCartID}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newCartID mirrors the storefront's "<unix-ms>-<0..999999>" line ids.
func newCartID(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.UnixMilli(), rand.IntN(1_000_000))
}

// NewSessionID returns an opaque id for X-Cart-Session.
func NewSessionID() string {
	return uuid.NewString()
}

func (s *Store) Items(ctx context.Context, session string) ([]Line, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	return s.load(ctx, session)
}

// Add appends a line and returns it with the resulting cart.
func (s *Store) Add(ctx context.Context, session string, in AddInput) (Line, []Line, error) {
	if err := validateSession(session); err != nil {
		return Line{}, nil, err
	}
	if err := s.validateAdd(in); err != nil {
		return Line{}, nil, err
	}

	lines, err := s.load(ctx, session)
	if err != nil {
		return Line{}, nil, err
	}

	now := s.now()
	line := Line{
		CartID:       s.newID(now),
		MenuItem:     in.MenuItem,
		Quantity:     in.Quantity,
		RiceType:     strings.TrimSpace(in.RiceType),
		DeliveryDate: in.DeliveryDate,
		School:       strings.TrimSpace(in.School),
		StudentName:  strings.TrimSpace(in.StudentName),
		RoomNumber:   strings.TrimSpace(in.RoomNumber),
		Notes:        strings.TrimSpace(in.Notes),
		TotalPrice:   LineTotal(in.MenuItem.Price, in.Quantity),
		AddedAt:      now.UTC(),
	}
	lines = append(lines, line)

	if err := s.save(ctx, session, lines); err != nil {
		return Line{}, nil, err
	}
	return line, lines, nil
}

// Remove drops the line with cartID. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, session, cartID string) ([]Line, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	lines, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.CartID != cartID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return lines, nil
	}
	if err := s.save(ctx, session, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity sets a line's quantity and recomputes its total.
// Quantities below 1 are ignored and the cart is returned unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, session, cartID string, quantity int) ([]Line, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	lines, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return lines, nil
	}

	changed := false
	for i := range lines {
		if lines[i].CartID != cartID {
			continue
		}
		lines[i].Quantity = quantity
		lines[i].TotalPrice = LineTotal(lines[i].MenuItem.Price, quantity)
		changed = true
	}
	if !changed {
		return lines, nil
	}
	if err := s.save(ctx, session, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) Clear(ctx context.Context, session string) error {
	if err := validateSession(session); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *Store) validateAdd(in AddInput) error {
	details := map[string]string{}
	if in.MenuItem.ID == uuid.Nil || strings.TrimSpace(in.MenuItem.Name) == "" {
		details["menuItem"] = "is required"
	}
	if in.MenuItem.Price.LessThan(decimal.Zero) {
		details["menuItem.price"] = "must not be negative"
	}
	if in.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if in.DeliveryDate.IsZero() {
		details["deliveryDate"] = "is required"
	}
	for field, value := range map[string]string{
		"studentName": in.StudentName,
		"school":      in.School,
		"roomNumber":  in.RoomNumber,
	} {
		if strings.TrimSpace(value) == "" {
			details[field] = "is required"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item").WithDetails(details)
	}
	if s.cutoff != nil {
		return s.cutoff.Check(s.now(), in.DeliveryDate)
	}
	return nil
}

func (s *Store) load(ctx context.Context, session string) ([]Line, error) {
	raw, ok, err := s.storage.Get(ctx, session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if !ok || len(raw) == 0 {
		return []Line{}, nil
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (s *Store) save(ctx context.Context, session string, lines []Line) error {
	if len(lines) == 0 {
		if err := s.storage.Delete(ctx, session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.storage.Set(ctx, session, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func validateSession(session string) error {
	session = strings.TrimSpace(session)
	if session == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if len(session) > maxSessionIDLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is too long")
	}
	return nil
}
