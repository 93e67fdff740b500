package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/api/validators"
	"github.com/narusushi/lunch-backend/internal/cart"
	internalorders "github.com/narusushi/lunch-backend/internal/orders"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

// CartSessionHeader names the server-side cart a checkout may draw from.
const CartSessionHeader = "X-Cart-Session"

type createOrderRequest struct {
	Cart            []cart.Line                  `json:"cart"`
	CustomerInfo    *internalorders.CustomerInfo `json:"customerInfo"`
	PaymentIntentID string                       `json:"paymentIntentId"`
	TotalAmount     *float64                     `json:"totalAmount"`
}

type createOrderResponse struct {
	Success     bool                      `json:"success"`
	OrderNumber string                    `json:"orderNumber"`
	Orders      []internalorders.OrderDTO `json:"orders"`
	TotalAmount float64                   `json:"totalAmount"`
}

// Create turns a checkout submission into one order per delivery group.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeLenientJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if req.CustomerInfo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields").
				WithDetails(map[string]string{"customerInfo": "is required"}))
			return
		}

		result, err := svc.CreateOrders(r.Context(), internalorders.CreateInput{
			Lines:           req.Cart,
			Customer:        *req.CustomerInfo,
			PaymentIntentID: req.PaymentIntentID,
			TotalAmount:     req.TotalAmount,
			CartSession:     strings.TrimSpace(r.Header.Get(CartSessionHeader)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, createOrderResponse{
			Success:     true,
			OrderNumber: result.OrderNumber,
			Orders:      result.Orders,
			TotalAmount: result.TotalAmount,
		})
	}
}

// List returns every order with nested items, newest delivery date first.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filters, err := internalorders.ParseFilters(
			validators.QueryString(r, "deliveryDate"),
			validators.QueryString(r, "school"),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(list), list)
	}
}

// Get returns every order sharing an order number.
func Get(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		list, err := svc.GetByOrderNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
