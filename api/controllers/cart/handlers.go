package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/api/validators"
	cartsvc "github.com/narusushi/lunch-backend/internal/cart"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

// SessionHeader carries the opaque cart session id in both directions.
const SessionHeader = "X-Cart-Session"

// Store is the subset of the cart store used by the handlers.
type Store interface {
	Items(ctx context.Context, session string) ([]cartsvc.Line, error)
	Add(ctx context.Context, session string, in cartsvc.AddInput) (cartsvc.Line, []cartsvc.Line, error)
	Remove(ctx context.Context, session, cartID string) ([]cartsvc.Line, error)
	UpdateQuantity(ctx context.Context, session, cartID string, quantity int) ([]cartsvc.Line, error)
	Clear(ctx context.Context, session string) error
}

// Fetch returns the session cart. A request without a session gets a fresh
// one and an empty cart.
func Fetch(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		session := ensureSession(w, r)
		lines, err := store.Items(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartsvc.Summarize(lines))
	}
}

// Add appends a line to the session cart, minting a session if needed.
func Add(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		var req addLineRequest
		if err := validators.DecodeLenientJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := ensureSession(w, r)
		line, lines, err := store.Add(r.Context(), session, toAddInput(req))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addLineResponse{Line: line, Cart: cartsvc.Summarize(lines)})
	}
}

// UpdateQuantity changes one line's quantity. Values below one are ignored.
func UpdateQuantity(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		session, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := store.UpdateQuantity(r.Context(), session, chi.URLParam(r, "cartId"), req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartsvc.Summarize(lines))
	}
}

// Remove drops one line from the session cart.
func Remove(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		session, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := store.Remove(r.Context(), session, chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartsvc.Summarize(lines))
	}
}

// Clear empties the session cart.
func Clear(store Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}

		session, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context(), session); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartsvc.Summarize(nil))
	}
}

func ensureSession(w http.ResponseWriter, r *http.Request) string {
	session := strings.TrimSpace(r.Header.Get(SessionHeader))
	if session == "" {
		session = cartsvc.NewSessionID()
	}
	w.Header().Set(SessionHeader, session)
	return session
}

func requireSession(r *http.Request) (string, error) {
	session := strings.TrimSpace(r.Header.Get(SessionHeader))
	if session == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session is required").
			WithDetails(map[string]string{"header": SessionHeader})
	}
	return session, nil
}
