package production

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/api/validators"
	internalproduction "github.com/narusushi/lunch-backend/internal/production"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FlatList returns the legacy "item + customizations" quantity summary.
func FlatList(svc internalproduction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}
		list, err := svc.FlatList(r.Context(), validators.QueryString(r, "school"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Categories returns the category report with date and school facets.
func Categories(svc internalproduction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}
		report, err := svc.Report(r.Context(), validators.QueryString(r, "school"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// Export streams the category report as an XLSX workbook.
func Export(svc internalproduction.Service, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}

		// Buffer so a failed render still gets a JSON error response.
		var buf bytes.Buffer
		if err := svc.ExportXLSX(r.Context(), validators.QueryString(r, "school"), &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("production-%s.xlsx", now().Format("2006-01-02"))
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Error(r.Context(), "write production export", err)
		}
	}
}
