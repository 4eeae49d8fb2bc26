package report

import (
	"bytes"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/canevoj/standarium/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// productCSVRow mirrors the purchases report columns plus the optional
// pricing fields, so an exported purchases report round-trips as an import.
type productCSVRow struct {
	Name           string  `csv:"Item"`
	Kind           string  `csv:"Tipo"`
	Cost           float64 `csv:"Custo"`
	Qty            int     `csv:"Quantidade"`
	SuggestedPrice float64 `csv:"Preço Sugerido"`
	PurchaseDate   string  `csv:"Data Compra"`
	PurchaseMethod string  `csv:"Método"`
}

// ImportProductsCSV parses an uploaded CSV into product documents. Dates are
// accepted in any common format and normalized to YYYY-MM-DD; kind labels
// map back to the stored kind values. Rows come back normalized but
// unsaved; the caller persists them through the sync gateway.
func ImportProductsCSV(data []byte) ([]domain.Product, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var rows []productCSVRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}

	products := make([]domain.Product, 0, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		p := domain.Product{
			Name:           name,
			Kind:           kindFromLabel(row.Kind),
			CostTotal:      row.Cost,
			Qty:            row.Qty,
			PurchaseMethod: strings.TrimSpace(row.PurchaseMethod),
			Status:         domain.StatusInStock,
		}
		if row.PurchaseDate != "" {
			parsed, err := dateparse.ParseAny(row.PurchaseDate)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d: purchase date %q", i+1, row.PurchaseDate)
			}
			p.PurchaseDate = parsed.Format("2006-01-02")
		}
		if p.Kind == domain.KindForSale && row.SuggestedPrice > 0 {
			suggested := row.SuggestedPrice
			p.SuggestedPrice = &suggested
		}
		p.Normalize()
		products = append(products, p)
	}
	return products, nil
}

func kindFromLabel(label string) string {
	if strings.EqualFold(strings.TrimSpace(label), KindLabelConsumption) {
		return domain.KindConsumption
	}
	return domain.KindForSale
}
