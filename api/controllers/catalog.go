package controllers

import (
	"net/http"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/internal/catalog"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

// MenuList returns every menu item ordered by category.
func MenuList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		items, err := svc.ListMenu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(items), items)
	}
}

// SchoolList returns the active schools by name.
func SchoolList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		schools, err := svc.ListSchools(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(schools), schools)
	}
}
