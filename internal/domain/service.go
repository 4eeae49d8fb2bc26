package domain

import "time"

// Service is a priced service offering. Services have no stock lifecycle.
type Service struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	UserID      int64     `gorm:"index" json:"user_id,string"`
	Name        string    `gorm:"index;size:200" json:"name"`
	Price       float64   `json:"price"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Service) TableName() string {
	return "erp_service"
}

// Component is one build-cost checklist item. Whether a component is checked
// is request state on the quote endpoint, never persisted.
type Component struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	UserID    int64     `gorm:"index" json:"user_id,string"`
	Name      string    `gorm:"index;size:200" json:"name"`
	Cost      float64   `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Component) TableName() string {
	return "erp_component"
}

// Sale is the flattened record of a completed sale, projected from a product
// whose status reaches sold. It is redundant with the product's own sale
// fields and is refreshed by the sync gateway on every product write.
type Sale struct {
	ID         int64     `gorm:"primaryKey" json:"id,string"`
	UserID     int64     `gorm:"index" json:"user_id,string"`
	ProductID  int64     `gorm:"uniqueIndex:idx_sale_product" json:"product_id,string"`
	Name       string    `gorm:"size:200" json:"name"`
	CostTotal  float64   `json:"cost_total"`
	SaleValue  float64   `json:"sale_value"`
	SaleDate   string    `gorm:"size:10" json:"sale_date"`
	SaleMethod string    `gorm:"size:64" json:"sale_method"`
	Qty        int       `json:"qty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Sale) TableName() string {
	return "erp_sale"
}
