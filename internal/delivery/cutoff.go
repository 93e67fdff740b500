// Package delivery decides which delivery dates can still be ordered.
package delivery

import (
	"fmt"
	"time"

	"github.com/narusushi/lunch-backend/pkg/config"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

// Policy is the same-day ordering cutoff: orders for today close at
// CutoffHour local time, and past dates are never accepted.
type Policy struct {
	Location   *time.Location
	CutoffHour int
	Enforce    bool
}

// NewPolicy builds a Policy from configuration.
func NewPolicy(cfg config.OrdersConfig) (Policy, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Policy{}, err
	}
	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 {
		return Policy{}, fmt.Errorf("cutoff hour must be within 0-23, got %d", cfg.CutoffHour)
	}
	return Policy{Location: loc, CutoffHour: cfg.CutoffHour, Enforce: cfg.EnforceCutoff}, nil
}

// EarliestDate is the first delivery date orderable at now.
func (p Policy) EarliestDate(now time.Time) dbtypes.Date {
	local := now.In(p.location())
	today := dbtypes.DateOf(local)
	if local.Hour() >= p.CutoffHour {
		return today.AddDays(1)
	}
	return today
}

// Check returns a validation error when date is no longer orderable at now.
// It is a no-op when enforcement is disabled.
func (p Policy) Check(now time.Time, date dbtypes.Date) error {
	if !p.Enforce {
		return nil
	}
	if date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery date is required")
	}
	earliest := p.EarliestDate(now)
	if date.Before(earliest) {
		return pkgerrors.Newf(pkgerrors.CodeValidation,
			"delivery date %s is no longer available; earliest is %s (orders close at %02d:00)",
			date, earliest, p.CutoffHour,
		).WithDetails(map[string]any{
			"deliveryDate": date.String(),
			"earliest":     earliest.String(),
		})
	}
	return nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
