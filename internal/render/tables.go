package render

import (
	"sort"
	"strings"

	"github.com/canevoj/standarium/internal/domain"
)

// DefaultMarkupPercent is the markup applied over component cost plus labor
// when no business rule override is configured.
const DefaultMarkupPercent = 30

// ServiceList returns the service offerings sorted alphabetically by name.
func ServiceList(services []domain.Service) []domain.Service {
	out := make([]domain.Service, len(services))
	copy(out, services)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Checklist returns the build-cost components sorted alphabetically by name.
func Checklist(components []domain.Component) []domain.Component {
	out := make([]domain.Component, len(components))
	copy(out, components)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Quote is the checklist quote for a set of checked components.
type Quote struct {
	TotalCost      float64 `json:"total_cost"`
	Labor          float64 `json:"labor"`
	SuggestedPrice float64 `json:"suggested_price"`
}

// QuoteChecklist sums the cost of the checked components and marks up cost
// plus labor by markupPercent (non-positive falls back to the default).
// Unknown IDs are ignored.
func QuoteChecklist(components []domain.Component, checkedIDs []int64, labor float64, markupPercent float64) Quote {
	if markupPercent <= 0 {
		markupPercent = DefaultMarkupPercent
	}
	checked := make(map[int64]bool, len(checkedIDs))
	for _, id := range checkedIDs {
		checked[id] = true
	}
	q := Quote{Labor: labor}
	for _, c := range components {
		if checked[c.ID] {
			q.TotalCost += c.Cost
		}
	}
	q.SuggestedPrice = (q.TotalCost + labor) * (1 + markupPercent/100)
	return q
}
