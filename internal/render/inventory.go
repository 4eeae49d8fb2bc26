package render

import (
	"sort"

	"github.com/canevoj/standarium/internal/domain"
)

// Inventory sort keys.
const (
	SortByDate     = "date"
	SortByUnitCost = "unit-cost"
)

// InventoryQuery is the view state of the inventory page: one combined
// status/kind filter, an optional exact purchase date, and a sort order.
type InventoryQuery struct {
	Filter       string `json:"filter"`        // "", consumption, in-stock, in-transit, sold
	PurchaseDate string `json:"purchase_date"` // exact YYYY-MM-DD, "" = any
	SortBy       string `json:"sort_by"`       // date | unit-cost
	Descending   bool   `json:"descending"`
}

// InventoryRow is one listed product with its derived unit cost.
type InventoryRow struct {
	Product  domain.Product `json:"product"`
	UnitCost float64        `json:"unit_cost"`
}

// Inventory filters and sorts the product snapshot for the inventory page.
// The "consumption" filter value selects by kind; every other value selects
// by status within for-sale items. Sorting is stable, so ties keep snapshot
// order.
func Inventory(products []domain.Product, query InventoryQuery) []InventoryRow {
	rows := make([]InventoryRow, 0, len(products))
	for _, p := range products {
		switch query.Filter {
		case "":
		case domain.KindConsumption:
			if p.Kind != domain.KindConsumption {
				continue
			}
		default:
			if p.Kind != domain.KindForSale || p.Status != query.Filter {
				continue
			}
		}
		if query.PurchaseDate != "" && p.PurchaseDate != query.PurchaseDate {
			continue
		}
		rows = append(rows, InventoryRow{Product: p, UnitCost: p.UnitCost()})
	}

	less := func(a, b InventoryRow) bool {
		return a.Product.PurchaseDate < b.Product.PurchaseDate
	}
	if query.SortBy == SortByUnitCost {
		less = func(a, b InventoryRow) bool {
			return a.UnitCost < b.UnitCost
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if query.Descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return rows
}
