package controllers

import (
	"net/http"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/api/validators"
	"github.com/narusushi/lunch-backend/internal/auth"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

// AdminLogin exchanges the admin credentials for a bearer token.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "admin login is not configured"))
			return
		}

		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
