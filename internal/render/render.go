// Package render derives the page view models from a session's collection
// snapshots. Derivations are pure functions; the Renderer wires them to the
// session bus so each change event rebuilds only the pages that read the
// changed collection.
package render

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/canevoj/standarium/internal/bus"
	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/report"
	"github.com/canevoj/standarium/internal/store"
)

// Renderer caches the derived pages for one session and refreshes them from
// the store's change events. View state (dashboard period, inventory query)
// lives here; changing it re-derives the affected page immediately.
type Renderer struct {
	store *store.Store
	now   func() time.Time
	subs  []*bus.Subscription

	mu              sync.RWMutex
	dashboardPeriod string
	inventoryQuery  InventoryQuery

	dashboard *DashboardView
	inventory []InventoryRow
	services  []domain.Service
	checklist []domain.Component
	sales     []domain.Sale
	reports   map[string]*report.Table
}

// New builds a renderer over the store and subscribes its refresh hooks on
// the store's bus. The initial pages are derived from whatever the store
// holds at that moment.
func New(s *store.Store) *Renderer {
	r := &Renderer{
		store:           s,
		now:             time.Now,
		dashboardPeriod: PeriodAllTime,
		inventoryQuery:  InventoryQuery{SortBy: SortByDate, Descending: true},
		reports:         map[string]*report.Table{},
	}
	b := s.Bus()
	r.subs = []*bus.Subscription{
		b.On(bus.TopicProductsChanged, r.onProductsChanged),
		b.On(bus.TopicServicesChanged, r.onServicesChanged),
		b.On(bus.TopicComponentsChanged, r.onComponentsChanged),
		b.On(bus.TopicSalesChanged, r.onSalesChanged),
	}
	r.RenderAll()
	return r
}

// Close detaches the renderer from the bus. Other renderers on the same bus
// keep their subscriptions.
func (r *Renderer) Close() {
	for _, sub := range r.subs {
		sub.Off()
	}
}

// RenderAll re-derives every page from the current snapshots.
func (r *Renderer) RenderAll() {
	r.onProductsChanged(nil)
	r.onServicesChanged(nil)
	r.onComponentsChanged(nil)
	r.onSalesChanged(nil)
}

func (r *Renderer) onProductsChanged(interface{}) {
	products := r.store.GetProducts()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.dashboard = Dashboard(products, r.dashboardPeriod, r.now())
	r.inventory = Inventory(products, r.inventoryQuery)
	for _, t := range []string{report.TypeSales, report.TypePurchases, report.TypeStock} {
		table, err := report.Build(t, products)
		if err != nil {
			zap.L().Error("derive report", zap.String("type", t), zap.Error(err))
			continue
		}
		r.reports[t] = table
	}
}

func (r *Renderer) onServicesChanged(interface{}) {
	services := ServiceList(r.store.GetServices())
	r.mu.Lock()
	r.services = services
	r.mu.Unlock()
}

func (r *Renderer) onComponentsChanged(interface{}) {
	checklist := Checklist(r.store.GetComponents())
	r.mu.Lock()
	r.checklist = checklist
	r.mu.Unlock()
}

func (r *Renderer) onSalesChanged(interface{}) {
	sales := r.store.GetSales()
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SaleDate > sales[j].SaleDate
	})
	r.mu.Lock()
	r.sales = sales
	r.mu.Unlock()
}

// Dashboard returns the cached dashboard, re-deriving it first when the
// requested period differs from the cached one. An empty period keeps the
// current one.
func (r *Renderer) Dashboard(period string) *DashboardView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if period != "" && period != r.dashboardPeriod {
		r.dashboardPeriod = period
		r.dashboard = Dashboard(r.store.GetProducts(), period, r.now())
	}
	return r.dashboard
}

// Inventory returns the cached inventory page, re-deriving it first when the
// query differs from the cached one.
func (r *Renderer) Inventory(query InventoryQuery) []InventoryRow {
	if query.SortBy == "" {
		query.SortBy = SortByDate
		query.Descending = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if query != r.inventoryQuery {
		r.inventoryQuery = query
		r.inventory = Inventory(r.store.GetProducts(), query)
	}
	return r.inventory
}

// Services returns the cached, alphabetized service list.
func (r *Renderer) Services() []domain.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.services
}

// Checklist returns the cached, alphabetized component checklist.
func (r *Renderer) Checklist() []domain.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checklist
}

// Sales returns the cached sale records, most recent first.
func (r *Renderer) Sales() []domain.Sale {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sales
}

// Report returns the cached report table for a type, or nil if the type is
// unknown.
func (r *Renderer) Report(reportType string) *report.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reports[reportType]
}
