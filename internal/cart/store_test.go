package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narusushi/lunch-backend/internal/delivery"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

var fixedNow = time.Date(2025, 5, 12, 7, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	opts = append([]StoreOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := NewStore(NewMemoryStorage(), opts...)
	require.NoError(t, err)
	return s
}

func salmonRoll(qty int) AddInput {
	return AddInput{
		MenuItem:     MenuItemSnapshot{ID: uuid.New(), Name: "Salmon Roll", Price: decimal.RequireFromString("8.50"), Category: "Maki"},
		Quantity:     qty,
		RiceType:     "Brown",
		DeliveryDate: dbtypes.NewDate(2025, 5, 14),
		School:       "Westmere School",
		StudentName:  "Aroha",
		RoomNumber:   "12",
	}
}

func TestAddComputesTotalAndPersists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	line, lines, err := s.Add(ctx, "sess", salmonRoll(2))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, line.TotalPrice.Equal(decimal.RequireFromString("17.00")))
	assert.Regexp(t, `^\d+-\d+$`, line.CartID)
	assert.Equal(t, fixedNow, line.AddedAt)

	stored, err := s.Items(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, line.CartID, stored[0].CartID)
	assert.Equal(t, "2025-05-14", stored[0].DeliveryDate.String())
}

func TestAddValidatesRequiredFields(t *testing.T) {
	s := newTestStore(t)
	in := salmonRoll(0)
	in.StudentName = " "
	in.DeliveryDate = dbtypes.Date{}

	_, _, err := s.Add(context.Background(), "sess", in)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "quantity")
	assert.Contains(t, details, "studentName")
	assert.Contains(t, details, "deliveryDate")
}

func TestAddEnforcesCutoff(t *testing.T) {
	s := newTestStore(t, WithCutoff(delivery.Policy{Location: time.UTC, CutoffHour: 7, Enforce: true}))
	in := salmonRoll(1)
	in.DeliveryDate = dbtypes.DateOf(fixedNow)

	_, _, err := s.Add(context.Background(), "sess", in)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	line, _, err := s.Add(ctx, "sess", salmonRoll(1))
	require.NoError(t, err)

	lines, err := s.UpdateQuantity(ctx, "sess", line.CartID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].TotalPrice.Equal(decimal.RequireFromString("25.50")))

	lines, err = s.UpdateQuantity(ctx, "sess", line.CartID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, lines[0].Quantity, "quantities below 1 are ignored")
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	first, _, err := s.Add(ctx, "sess", salmonRoll(1))
	require.NoError(t, err)
	_, _, err = s.Add(ctx, "sess", salmonRoll(2))
	require.NoError(t, err)

	lines, err := s.Remove(ctx, "sess", first.CartID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.NotEqual(t, first.CartID, lines[0].CartID)

	lines, err = s.Remove(ctx, "sess", "missing")
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	require.NoError(t, s.Clear(ctx, "sess"))
	lines, err = s.Items(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, _, err := s.Add(ctx, "a", salmonRoll(1))
	require.NoError(t, err)

	lines, err := s.Items(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = s.Items(ctx, "")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSummarize(t *testing.T) {
	lines := []Line{
		{Quantity: 2, TotalPrice: decimal.RequireFromString("17.00")},
		{Quantity: 1, TotalPrice: decimal.RequireFromString("6.00")},
	}
	got := Summarize(lines)
	assert.Equal(t, 3, got.ItemCount)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("23.00")))

	empty := Summarize(nil)
	assert.NotNil(t, empty.Items)
	assert.True(t, empty.Subtotal.IsZero())
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingStorage) Set(context.Context, string, []byte) error { return errors.New("connection refused") }
func (failingStorage) Delete(context.Context, string) error      { return errors.New("connection refused") }

func TestStorageErrorsAreDependencyErrors(t *testing.T) {
	s, err := NewStore(failingStorage{})
	require.NoError(t, err)

	_, err = s.Items(context.Background(), "sess")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}
