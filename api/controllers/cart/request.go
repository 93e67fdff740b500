package cart

import (
	"github.com/narusushi/lunch-backend/internal/cart"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
)

type addLineRequest struct {
	MenuItem     cart.MenuItemSnapshot `json:"menuItem"`
	Quantity     int                   `json:"quantity"`
	RiceType     string                `json:"riceType"`
	DeliveryDate dbtypes.Date          `json:"deliveryDate"`
	School       string                `json:"school"`
	StudentName  string                `json:"studentName"`
	RoomNumber   string                `json:"roomNumber"`
	Notes        string                `json:"notes"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type addLineResponse struct {
	Line cart.Line    `json:"line"`
	Cart cart.Summary `json:"cart"`
}

func toAddInput(req addLineRequest) cart.AddInput {
	return cart.AddInput{
		MenuItem:     req.MenuItem,
		Quantity:     req.Quantity,
		RiceType:     req.RiceType,
		DeliveryDate: req.DeliveryDate,
		School:       req.School,
		StudentName:  req.StudentName,
		RoomNumber:   req.RoomNumber,
		Notes:        req.Notes,
	}
}
