// Package store holds the authoritative in-memory cache of a principal's
// entity collections. The store never originates mutations: the sync gateway
// replaces each collection wholesale from a remote snapshot, and every
// replacement emits a change event on the session bus.
package store

import (
	"sync"

	"github.com/canevoj/standarium/internal/bus"
	"github.com/canevoj/standarium/internal/domain"
)

type Store struct {
	bus *bus.Bus

	mu         sync.RWMutex
	products   []domain.Product
	services   []domain.Service
	components []domain.Component
	sales      []domain.Sale
}

func New(b *bus.Bus) *Store {
	return &Store{bus: b}
}

// Bus returns the session bus the store emits change events on.
func (s *Store) Bus() *bus.Bus {
	return s.bus
}

// SetProducts replaces the product collection and emits products.changed.
// The slice is taken as the complete, authoritative collection state.
func (s *Store) SetProducts(items []domain.Product) {
	s.mu.Lock()
	s.products = items
	s.mu.Unlock()
	s.bus.Emit(bus.TopicProductsChanged, nil)
}

// GetProducts returns a shallow copy of the current product collection in
// snapshot order.
func (s *Store) GetProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) SetServices(items []domain.Service) {
	s.mu.Lock()
	s.services = items
	s.mu.Unlock()
	s.bus.Emit(bus.TopicServicesChanged, nil)
}

func (s *Store) GetServices() []domain.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Service, len(s.services))
	copy(out, s.services)
	return out
}

func (s *Store) SetComponents(items []domain.Component) {
	s.mu.Lock()
	s.components = items
	s.mu.Unlock()
	s.bus.Emit(bus.TopicComponentsChanged, nil)
}

func (s *Store) GetComponents() []domain.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Component, len(s.components))
	copy(out, s.components)
	return out
}

func (s *Store) SetSales(items []domain.Sale) {
	s.mu.Lock()
	s.sales = items
	s.mu.Unlock()
	s.bus.Emit(bus.TopicSalesChanged, nil)
}

func (s *Store) GetSales() []domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Sale, len(s.sales))
	copy(out, s.sales)
	return out
}
