package production

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/narusushi/lunch-backend/internal/orders"
	"github.com/narusushi/lunch-backend/pkg/enums"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

type rowSource interface {
	ListProductionRows(ctx context.Context, school string) ([]orders.ProductionRow, error)
}

type categoryIndex interface {
	CategoryIndex(ctx context.Context) (map[string]enums.MenuCategory, error)
}

// Service builds production lists. The school filter narrows rows; dates
// are never filtered.
type Service interface {
	FlatList(ctx context.Context, school string) ([]FlatEntry, error)
	Report(ctx context.Context, school string) (*Report, error)
	ExportXLSX(ctx context.Context, school string, w io.Writer) error
}

type service struct {
	rows       rowSource
	categories categoryIndex
}

func NewService(rows rowSource, categories categoryIndex) (Service, error) {
	if rows == nil {
		return nil, fmt.Errorf("production row source required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category index required")
	}
	return &service{rows: rows, categories: categories}, nil
}

func (s *service) FlatList(ctx context.Context, school string) ([]FlatEntry, error) {
	rows, err := s.load(ctx, school)
	if err != nil {
		return nil, err
	}
	return FlatSummary(rows), nil
}

func (s *service) Report(ctx context.Context, school string) (*Report, error) {
	rows, err := s.load(ctx, school)
	if err != nil {
		return nil, err
	}
	index, err := s.categories.CategoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildReport(rows, index)
	return &report, nil
}

func (s *service) ExportXLSX(ctx context.Context, school string, w io.Writer) error {
	report, err := s.Report(ctx, school)
	if err != nil {
		return err
	}
	if err := WriteXLSX(w, *report); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render production workbook")
	}
	return nil
}

func (s *service) load(ctx context.Context, school string) ([]orders.ProductionRow, error) {
	rows, err := s.rows.ListProductionRows(ctx, strings.TrimSpace(school))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load production rows")
	}
	return rows, nil
}
