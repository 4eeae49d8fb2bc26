package domain

import "time"

// Product kinds. Consumption items are expenses: they are never sold and
// carry no suggested price.
const (
	KindForSale     = "for-sale"
	KindConsumption = "consumption"
)

// Product status values. StatusNA is reserved for consumption items.
const (
	StatusInStock   = "in-stock"
	StatusInTransit = "in-transit"
	StatusSold      = "sold"
	StatusNA        = "not-applicable"
)

// Product represents one inventory item owned by a principal. CostTotal is
// the total acquisition cost for the whole quantity; unit cost is always
// derived as CostTotal / max(Qty, 1).
type Product struct {
	ID             int64     `gorm:"primaryKey" json:"id,string"`
	UserID         int64     `gorm:"index" json:"user_id,string"`
	Name           string    `gorm:"index;size:200" json:"name"`
	Kind           string    `gorm:"size:32;index" json:"kind"` // for-sale | consumption
	CostTotal      float64   `json:"cost_total"`
	Qty            int       `gorm:"default:1" json:"qty"`
	SuggestedPrice *float64  `json:"suggested_price"`              // per unit, nil for consumption
	PurchaseDate   string    `gorm:"size:10" json:"purchase_date"` // YYYY-MM-DD
	PurchaseMethod string    `gorm:"size:64" json:"purchase_method"`
	Status         string    `gorm:"size:20;index" json:"status"`
	SaleValue      *float64  `json:"sale_value"`
	SaleDate       *string   `gorm:"size:10" json:"sale_date"`
	SaleMethod     *string   `gorm:"size:64" json:"sale_method"`
	QtySold        *int      `json:"qty_sold"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "erp_product"
}

// Normalize enforces the kind/status invariants regardless of what a form
// submitted: consumption items are always not-applicable with no pricing or
// sale data, and sale fields exist only while the status is sold.
func (p *Product) Normalize() {
	if p.Qty <= 0 {
		p.Qty = 1
	}
	if p.Kind == KindConsumption {
		p.Status = StatusNA
		p.SuggestedPrice = nil
	}
	if p.Status != StatusSold {
		p.SaleValue = nil
		p.SaleDate = nil
		p.SaleMethod = nil
		p.QtySold = nil
	}
}

// UnitCost returns the per-unit acquisition cost.
func (p *Product) UnitCost() float64 {
	qty := p.Qty
	if qty <= 0 {
		qty = 1
	}
	return p.CostTotal / float64(qty)
}

// Sold reports whether this row is a completed sale of a for-sale item.
func (p *Product) Sold() bool {
	return p.Kind == KindForSale && p.Status == StatusSold
}
