// Package production folds order items into the kitchen prep list.
package production

import (
	"sort"
	"strings"

	"github.com/narusushi/lunch-backend/internal/orders"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	"github.com/narusushi/lunch-backend/pkg/enums"
)

// FlatEntry is one line of the legacy production list.
type FlatEntry struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// CategoryEntry is one item variant within a category.
type CategoryEntry struct {
	DisplayName   string `json:"displayName"`
	TotalQuantity int    `json:"totalQuantity"`
	RiceType      string `json:"riceType"`
	Notes         string `json:"notes"`
}

type CategoryGroup struct {
	Category enums.MenuCategory `json:"category"`
	Items    []CategoryEntry    `json:"items"`
}

type DateFacet struct {
	DeliveryDate dbtypes.Date    `json:"deliveryDate"`
	Categories   []CategoryGroup `json:"categories"`
}

type SchoolFacet struct {
	School     string          `json:"school"`
	Categories []CategoryGroup `json:"categories"`
}

// Report is the category production list with per-date and per-school cuts.
type Report struct {
	Categories []CategoryGroup `json:"categories"`
	ByDate     []DateFacet     `json:"byDate"`
	BySchool   []SchoolFacet   `json:"bySchool"`
}

// FlatSummary keys rows by item name followed by the raw customizations and
// sums quantities. Equal quantities keep first-seen order.
func FlatSummary(rows []orders.ProductionRow) []FlatEntry {
	index := make(map[string]int)
	out := make([]FlatEntry, 0)
	for _, row := range rows {
		key := strings.TrimSpace(row.ItemName + " " + strings.Join(row.Customizations, " "))
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, FlatEntry{Item: key})
		}
		out[i].Quantity += row.Quantity
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Quantity > out[b].Quantity })
	return out
}

type variantKey struct {
	name  string
	rice  string
	notes string
}

// Categorize buckets rows by the live menu category of their item name and
// sums quantities per (name, rice type, notes). Categories follow menu
// display order and empty ones are omitted.
func Categorize(rows []orders.ProductionRow, categories map[string]enums.MenuCategory) []CategoryGroup {
	type bucket struct {
		index map[variantKey]int
		items []CategoryEntry
	}
	buckets := make(map[enums.MenuCategory]*bucket)

	for _, row := range rows {
		rice, notes := orders.Reconcile(row.RiceType, row.SpecialNotes, row.Customizations)
		key := variantKey{name: row.ItemName, rice: deref(rice), notes: deref(notes)}

		category, ok := categories[row.ItemName]
		if !ok || !category.IsValid() {
			category = enums.MenuCategoryOther
		}
		b := buckets[category]
		if b == nil {
			b = &bucket{index: make(map[variantKey]int)}
			buckets[category] = b
		}
		i, ok := b.index[key]
		if !ok {
			i = len(b.items)
			b.index[key] = i
			b.items = append(b.items, CategoryEntry{DisplayName: key.name, RiceType: key.rice, Notes: key.notes})
		}
		b.items[i].TotalQuantity += row.Quantity
	}

	out := make([]CategoryGroup, 0, len(buckets))
	for _, category := range enums.MenuCategoryOrder {
		b := buckets[category]
		if b == nil {
			continue
		}
		items := b.items
		sort.SliceStable(items, func(x, y int) bool { return items[x].TotalQuantity > items[y].TotalQuantity })
		out = append(out, CategoryGroup{Category: category, Items: items})
	}
	return out
}

// BuildReport produces the category list for all rows plus one per delivery
// date (ascending) and one per school (by name).
func BuildReport(rows []orders.ProductionRow, categories map[string]enums.MenuCategory) Report {
	byDate := make(map[dbtypes.Date][]orders.ProductionRow)
	bySchool := make(map[string][]orders.ProductionRow)
	for _, row := range rows {
		byDate[row.DeliveryDate] = append(byDate[row.DeliveryDate], row)
		bySchool[row.School] = append(bySchool[row.School], row)
	}

	dates := make([]dbtypes.Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	schools := make([]string, 0, len(bySchool))
	for s := range bySchool {
		schools = append(schools, s)
	}
	sort.Strings(schools)

	report := Report{
		Categories: Categorize(rows, categories),
		ByDate:     make([]DateFacet, 0, len(dates)),
		BySchool:   make([]SchoolFacet, 0, len(schools)),
	}
	for _, d := range dates {
		report.ByDate = append(report.ByDate, DateFacet{DeliveryDate: d, Categories: Categorize(byDate[d], categories)})
	}
	for _, s := range schools {
		report.BySchool = append(report.BySchool, SchoolFacet{School: s, Categories: Categorize(bySchool[s], categories)})
	}
	return report
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
