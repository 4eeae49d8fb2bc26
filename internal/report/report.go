// Package report builds the three fixed report shapes over the product
// collection and serializes them for export. Header labels double as lookup
// keys: consumers match them through NormalizeHeader instead of exact casing.
package report

import (
	"strings"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/pkg/errors"
)

// Report types.
const (
	TypeSales     = "sales"
	TypePurchases = "purchases"
	TypeStock     = "stock"
)

// Display labels for product kinds, used in report cells and CSV import.
const (
	KindLabelForSale     = "Produto para Venda"
	KindLabelConsumption = "Consumo"
)

// Table is one rendered report: ordered headers plus rows keyed by header
// label. Cell values are strings or float64; lookups go through Lookup so
// casing and whitespace in the header never matter.
type Table struct {
	Type    string                   `json:"type"`
	Headers []string                 `json:"headers"`
	Rows    []map[string]interface{} `json:"rows"`
}

// NormalizeHeader folds a header label into its lookup key: lower case with
// spaces and underscores removed, so "Data Venda", "data venda" and
// "DATA_VENDA" all collide.
func NormalizeHeader(header string) string {
	header = strings.ToLower(header)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_':
			return -1
		}
		return r
	}, header)
}

// Lookup finds a row value by header label under normalization.
func Lookup(row map[string]interface{}, header string) (interface{}, bool) {
	want := NormalizeHeader(header)
	for key, v := range row {
		if NormalizeHeader(key) == want {
			return v, true
		}
	}
	return nil, false
}

// KindLabel maps a stored product kind to its display label.
func KindLabel(kind string) string {
	if kind == domain.KindConsumption {
		return KindLabelConsumption
	}
	return KindLabelForSale
}

// Build projects the product collection into the requested report shape.
func Build(reportType string, products []domain.Product) (*Table, error) {
	switch reportType {
	case TypeSales:
		return buildSales(products), nil
	case TypePurchases:
		return buildPurchases(products), nil
	case TypeStock:
		return buildStock(products), nil
	}
	return nil, errors.Errorf("unknown report type %q", reportType)
}

func buildSales(products []domain.Product) *Table {
	t := &Table{
		Type:    TypeSales,
		Headers: []string{"Data Venda", "Produto", "Custo", "Venda", "Lucro", "Método"},
	}
	for _, p := range products {
		if !p.Sold() {
			continue
		}
		var saleValue float64
		if p.SaleValue != nil {
			saleValue = *p.SaleValue
		}
		row := map[string]interface{}{
			"Data Venda": deref(p.SaleDate),
			"Produto":    p.Name,
			"Custo":      p.CostTotal,
			"Venda":      saleValue,
			"Lucro":      saleValue - p.CostTotal,
			"Método":     deref(p.SaleMethod),
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// buildPurchases covers every acquisition, for-sale and consumption alike.
func buildPurchases(products []domain.Product) *Table {
	t := &Table{
		Type:    TypePurchases,
		Headers: []string{"Data Compra", "Item", "Tipo", "Custo", "Método"},
	}
	for _, p := range products {
		t.Rows = append(t.Rows, map[string]interface{}{
			"Data Compra": p.PurchaseDate,
			"Item":        p.Name,
			"Tipo":        KindLabel(p.Kind),
			"Custo":       p.CostTotal,
			"Método":      p.PurchaseMethod,
		})
	}
	return t
}

func buildStock(products []domain.Product) *Table {
	t := &Table{
		Type:    TypeStock,
		Headers: []string{"Produto", "Custo", "Preço Sugerido", "Data Compra"},
	}
	for _, p := range products {
		if p.Kind != domain.KindForSale || p.Status != domain.StatusInStock {
			continue
		}
		var suggested float64
		if p.SuggestedPrice != nil {
			suggested = *p.SuggestedPrice
		}
		t.Rows = append(t.Rows, map[string]interface{}{
			"Produto":        p.Name,
			"Custo":          p.CostTotal,
			"Preço Sugerido": suggested,
			"Data Compra":    p.PurchaseDate,
		})
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
