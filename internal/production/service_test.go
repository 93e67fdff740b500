package production

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/narusushi/lunch-backend/internal/orders"
	"github.com/narusushi/lunch-backend/pkg/enums"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

type stubRows struct {
	rows   []orders.ProductionRow
	err    error
	school string
}

func (s *stubRows) ListProductionRows(_ context.Context, school string) ([]orders.ProductionRow, error) {
	s.school = school
	return s.rows, s.err
}

type stubIndex map[string]enums.MenuCategory

func (s stubIndex) CategoryIndex(context.Context) (map[string]enums.MenuCategory, error) {
	return s, nil
}

func TestServiceFlatListPassesSchoolFilter(t *testing.T) {
	src := &stubRows{rows: []orders.ProductionRow{row("Salmon Roll", 2, "Westmere", mon)}}
	svc, err := NewService(src, stubIndex(menu))
	require.NoError(t, err)

	got, err := svc.FlatList(context.Background(), " Westmere ")
	require.NoError(t, err)
	assert.Equal(t, "Westmere", src.school)
	assert.Equal(t, []FlatEntry{{Item: "Salmon Roll", Quantity: 2}}, got)
}

func TestServiceWrapsLoadErrors(t *testing.T) {
	svc, err := NewService(&stubRows{err: errors.New("boom")}, stubIndex(menu))
	require.NoError(t, err)

	_, err = svc.Report(context.Background(), "")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}

func TestExportXLSX(t *testing.T) {
	src := &stubRows{rows: []orders.ProductionRow{
		row("Salmon Roll", 2, "Westmere", mon, "Brown"),
		row("Tuna Nigiri", 1, "Ponsonby", tue),
	}}
	svc, err := NewService(src, stubIndex(menu))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), "", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, byDateSheet, bySchoolSheet}, f.GetSheetList())

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Category", "Item", "Rice Type", "Notes", "Quantity"}, rows[0])
	assert.Equal(t, []string{"Maki", "Salmon Roll", "Brown", "", "2"}, rows[1])

	dated, err := f.GetRows(byDateSheet)
	require.NoError(t, err)
	require.Len(t, dated, 3)
	assert.Equal(t, "2025-05-12", dated[1][0])
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, stubIndex(menu))
	assert.Error(t, err)
	_, err = NewService(&stubRows{}, nil)
	assert.Error(t, err)
}
