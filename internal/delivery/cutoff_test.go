package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narusushi/lunch-backend/pkg/config"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

func auckland(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	return loc
}

func TestEarliestDateRespectsCutoff(t *testing.T) {
	loc := auckland(t)
	p := Policy{Location: loc, CutoffHour: 9, Enforce: true}

	before := time.Date(2025, 5, 12, 8, 59, 0, 0, loc)
	assert.Equal(t, "2025-05-12", p.EarliestDate(before).String())

	after := time.Date(2025, 5, 12, 9, 0, 0, 0, loc)
	assert.Equal(t, "2025-05-13", p.EarliestDate(after).String())
}

func TestEarliestDateUsesLocalDay(t *testing.T) {
	loc := auckland(t)
	p := Policy{Location: loc, CutoffHour: 9, Enforce: true}

	// 20:30 UTC on the 11th is 08:30 NZST on the 12th.
	now := time.Date(2025, 5, 11, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-05-12", p.EarliestDate(now).String())
}

func TestCheckRejectsSameDayAfterCutoff(t *testing.T) {
	loc := auckland(t)
	p := Policy{Location: loc, CutoffHour: 9, Enforce: true}
	now := time.Date(2025, 5, 12, 10, 0, 0, 0, loc)

	err := p.Check(now, dbtypes.NewDate(2025, 5, 12))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	assert.NoError(t, p.Check(now, dbtypes.NewDate(2025, 5, 13)))
	assert.Error(t, p.Check(now, dbtypes.NewDate(2025, 5, 1)))
	assert.Error(t, p.Check(now, dbtypes.Date{}))
}

func TestCheckDisabled(t *testing.T) {
	p := Policy{CutoffHour: 9}
	assert.NoError(t, p.Check(time.Now(), dbtypes.NewDate(2000, 1, 1)))
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(config.OrdersConfig{Timezone: "Pacific/Auckland", CutoffHour: 9, EnforceCutoff: true})
	require.NoError(t, err)
	assert.Equal(t, "Pacific/Auckland", p.Location.String())
	assert.True(t, p.Enforce)

	_, err = NewPolicy(config.OrdersConfig{Timezone: "UTC", CutoffHour: 24})
	assert.Error(t, err)

	_, err = NewPolicy(config.OrdersConfig{Timezone: "Nowhere/Land"})
	assert.Error(t, err)
}
