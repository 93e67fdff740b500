package orders

import (
	"github.com/shopspring/decimal"

	"github.com/narusushi/lunch-backend/internal/cart"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
)

// GroupKey identifies one delivery: a student at a school and room on a date.
type GroupKey struct {
	DeliveryDate dbtypes.Date
	StudentName  string
	School       string
	RoomNumber   string
}

func keyOf(line cart.Line) GroupKey {
	return GroupKey{
		DeliveryDate: line.DeliveryDate,
		StudentName:  line.StudentName,
		School:       line.School,
		RoomNumber:   line.RoomNumber,
	}
}

// Group is the set of cart lines that become a single order.
type Group struct {
	Key   GroupKey
	Lines []cart.Line
	Total decimal.Decimal
}

// GroupCartLines partitions lines by delivery key. Groups and the lines inside
// them keep the order in which they first appear in the cart.
func GroupCartLines(lines []cart.Line) []Group {
	index := make(map[GroupKey]int, len(lines))
	groups := make([]Group, 0, len(lines))
	for _, line := range lines {
		key := keyOf(line)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Total: decimal.Zero})
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].Total = groups[i].Total.Add(cart.LineTotal(line.MenuItem.Price, line.Quantity))
	}
	return groups
}

// BatchTotal sums every group total.
func BatchTotal(groups []Group) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Total)
	}
	return total
}
