package render

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/canevoj/standarium/internal/domain"
)

// Dashboard periods.
const (
	PeriodAllTime    = "all-time"
	PeriodThisMonth  = "this-month"
	PeriodLast30Days = "last-30-days"
)

const dateLayout = "2006-01-02"

// DashboardView is the derived dashboard page for one period.
type DashboardView struct {
	Period      string          `json:"period"`
	Revenue     float64         `json:"revenue"`
	Profit      float64         `json:"profit"`
	SoldCount   int             `json:"sold_count"`
	StockValue  float64         `json:"stock_value"`
	StockCost   float64         `json:"stock_cost"`
	TicketAvg   float64         `json:"ticket_avg"`
	TicketMax   float64         `json:"ticket_max"`
	Monthly     []MonthlyPoint  `json:"monthly"`
	MethodShare []MethodRevenue `json:"method_share"`
}

// MonthlyPoint is one bucket of the revenue-vs-cost series, keyed by the
// month the money moved: sales bucket on sale date, costs on purchase date.
type MonthlyPoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
}

// MethodRevenue is the revenue share of one sale method within the period.
type MethodRevenue struct {
	Method  string  `json:"method"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"` // 0..1 of period revenue
}

// periodBounds returns the [from, to) window for a period, or ok=false for
// the unbounded all-time period. Unknown period values fall back to all-time.
func periodBounds(period string, now time.Time) (from, to time.Time, bounded bool) {
	switch period {
	case PeriodThisMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 1, 0), true
	case PeriodLast30Days:
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		return to.AddDate(0, 0, -30), to, true
	}
	return time.Time{}, time.Time{}, false
}

// inWindow reports whether a YYYY-MM-DD date string falls inside the window.
// An empty or malformed date never matches a bounded window.
func inWindow(date string, from, to time.Time, bounded bool) bool {
	if !bounded {
		return true
	}
	d, err := time.ParseInLocation(dateLayout, date, from.Location())
	if err != nil {
		return false
	}
	return !d.Before(from) && d.Before(to)
}

// Dashboard derives the dashboard page from the product snapshot. Stock
// figures ignore the period: they describe the inventory as it stands now.
func Dashboard(products []domain.Product, period string, now time.Time) *DashboardView {
	from, to, bounded := periodBounds(period, now)
	if !bounded {
		period = PeriodAllTime
	}

	view := &DashboardView{Period: period}
	byMonth := map[string]*MonthlyPoint{}
	byMethod := map[string]float64{}
	var tickets []float64

	for _, p := range products {
		if p.Kind != domain.KindForSale {
			continue
		}
		if p.Sold() {
			saleDate := ""
			if p.SaleDate != nil {
				saleDate = *p.SaleDate
			}
			if !inWindow(saleDate, from, to, bounded) {
				continue
			}
			var saleValue float64
			if p.SaleValue != nil {
				saleValue = *p.SaleValue
			}
			view.Revenue += saleValue
			view.Profit += saleValue - p.CostTotal
			view.SoldCount++
			tickets = append(tickets, saleValue)

			if m, ok := monthKey(saleDate); ok {
				monthlyBucket(byMonth, m).Revenue += saleValue
			}
			method := "outro"
			if p.SaleMethod != nil && *p.SaleMethod != "" {
				method = *p.SaleMethod
			}
			byMethod[method] += saleValue
			continue
		}

		// Unsold for-sale inventory.
		view.StockCost += p.CostTotal
		if p.SuggestedPrice != nil {
			view.StockValue += *p.SuggestedPrice * float64(p.Qty)
		}
	}

	// Acquisition costs bucket on purchase month, across all for-sale items
	// regardless of their current status.
	for _, p := range products {
		if p.Kind != domain.KindForSale {
			continue
		}
		if !inWindow(p.PurchaseDate, from, to, bounded) {
			continue
		}
		if m, ok := monthKey(p.PurchaseDate); ok {
			monthlyBucket(byMonth, m).Cost += p.CostTotal
		}
	}

	if len(tickets) > 0 {
		view.TicketAvg, _ = stats.Mean(tickets)
		view.TicketMax, _ = stats.Max(tickets)
	}

	for _, point := range byMonth {
		view.Monthly = append(view.Monthly, *point)
	}
	sort.Slice(view.Monthly, func(i, j int) bool {
		return view.Monthly[i].Month < view.Monthly[j].Month
	})

	for method, revenue := range byMethod {
		share := 0.0
		if view.Revenue > 0 {
			share = revenue / view.Revenue
		}
		view.MethodShare = append(view.MethodShare, MethodRevenue{
			Method: method, Revenue: revenue, Share: share,
		})
	}
	sort.Slice(view.MethodShare, func(i, j int) bool {
		a, b := view.MethodShare[i], view.MethodShare[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Method < b.Method
	})

	return view
}

func monthKey(date string) (string, bool) {
	if len(date) < 7 {
		return "", false
	}
	return date[:7], true
}

func monthlyBucket(byMonth map[string]*MonthlyPoint, month string) *MonthlyPoint {
	point, ok := byMonth[month]
	if !ok {
		point = &MonthlyPoint{Month: month}
		byMonth[month] = point
	}
	return point
}
