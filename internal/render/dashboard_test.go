package render

import (
	"testing"
	"time"

	"github.com/canevoj/standarium/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func soldProduct(name string, cost, sale float64, saleDate, method string) domain.Product {
	p := domain.Product{
		Name: name, Kind: domain.KindForSale, CostTotal: cost, Qty: 1,
		PurchaseDate: "2026-01-10", Status: domain.StatusSold,
		SaleValue: floatPtr(sale), SaleMethod: strPtr(method),
	}
	if saleDate != "" {
		p.SaleDate = strPtr(saleDate)
	}
	return p
}

func TestDashboardAllTimeSums(t *testing.T) {
	products := []domain.Product{
		soldProduct("a", 100, 250, "2026-05-01", "pix"),
		soldProduct("b", 40, 90, "2026-08-10", "dinheiro"),
		{
			Name: "em estoque", Kind: domain.KindForSale, CostTotal: 60, Qty: 3,
			SuggestedPrice: floatPtr(50), Status: domain.StatusInStock,
			PurchaseDate: "2026-07-01",
		},
		{
			Name: "consumo", Kind: domain.KindConsumption, CostTotal: 15, Qty: 1,
			Status: domain.StatusNA, PurchaseDate: "2026-07-02",
		},
	}
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	view := Dashboard(products, PeriodAllTime, now)

	if view.Revenue != 340 {
		t.Errorf("revenue = %v, want 340", view.Revenue)
	}
	if view.Profit != 200 {
		t.Errorf("profit = %v, want 200", view.Profit)
	}
	if view.SoldCount != 2 {
		t.Errorf("sold count = %v, want 2", view.SoldCount)
	}
	if view.StockValue != 150 {
		t.Errorf("stock value = %v, want 150 (50 x 3)", view.StockValue)
	}
	if view.StockCost != 60 {
		t.Errorf("stock cost = %v, want 60", view.StockCost)
	}
	if view.TicketAvg != 170 {
		t.Errorf("ticket avg = %v, want 170", view.TicketAvg)
	}
}

func TestDashboardBoundedPeriodExcludesUndatedSales(t *testing.T) {
	products := []domain.Product{
		soldProduct("dated", 10, 30, "2026-08-15", "pix"),
		soldProduct("undated", 10, 99, "", "pix"),
		soldProduct("old", 10, 500, "2025-01-01", "pix"),
	}
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	view := Dashboard(products, PeriodThisMonth, now)
	if view.Revenue != 30 || view.SoldCount != 1 {
		t.Errorf("this-month revenue=%v count=%v, want 30/1", view.Revenue, view.SoldCount)
	}

	view = Dashboard(products, PeriodAllTime, now)
	if view.Revenue != 629 || view.SoldCount != 3 {
		t.Errorf("all-time revenue=%v count=%v, want 629/3", view.Revenue, view.SoldCount)
	}
}

func TestDashboardLast30DaysWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC)
	products := []domain.Product{
		soldProduct("inside", 10, 100, "2026-07-31", "pix"),
		soldProduct("edge-out", 10, 100, "2026-07-30", "pix"),
		soldProduct("today", 10, 100, "2026-08-29", "pix"),
	}
	view := Dashboard(products, PeriodLast30Days, now)
	if view.SoldCount != 2 {
		t.Errorf("sold count = %v, want 2 (window is the last 30 days inclusive of today)", view.SoldCount)
	}
}

func TestDashboardMonthlySeries(t *testing.T) {
	products := []domain.Product{
		soldProduct("jan-sale", 100, 250, "2026-02-05", "pix"),
		soldProduct("feb-sale", 50, 80, "2026-02-20", "pix"),
	}
	// Both purchases are in January.
	products[0].PurchaseDate = "2026-01-10"
	products[1].PurchaseDate = "2026-01-15"

	view := Dashboard(products, PeriodAllTime, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if len(view.Monthly) != 2 {
		t.Fatalf("monthly buckets = %d, want 2: %+v", len(view.Monthly), view.Monthly)
	}
	jan, feb := view.Monthly[0], view.Monthly[1]
	if jan.Month != "2026-01" || jan.Cost != 150 || jan.Revenue != 0 {
		t.Errorf("january bucket = %+v", jan)
	}
	if feb.Month != "2026-02" || feb.Revenue != 330 || feb.Cost != 0 {
		t.Errorf("february bucket = %+v", feb)
	}
}

func TestDashboardMethodShare(t *testing.T) {
	products := []domain.Product{
		soldProduct("a", 10, 300, "2026-08-01", "pix"),
		soldProduct("b", 10, 100, "2026-08-02", "dinheiro"),
	}
	view := Dashboard(products, PeriodAllTime, time.Now())
	if len(view.MethodShare) != 2 {
		t.Fatalf("method share entries = %d, want 2", len(view.MethodShare))
	}
	top := view.MethodShare[0]
	if top.Method != "pix" || top.Revenue != 300 || top.Share != 0.75 {
		t.Errorf("top method = %+v, want pix 300 (0.75)", top)
	}
}

func TestDashboardUnknownPeriodFallsBackToAllTime(t *testing.T) {
	view := Dashboard(nil, "fortnight", time.Now())
	if view.Period != PeriodAllTime {
		t.Errorf("period = %q, want %q", view.Period, PeriodAllTime)
	}
}
