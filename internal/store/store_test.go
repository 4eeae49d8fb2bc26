package store

import (
	"reflect"
	"testing"

	"github.com/canevoj/standarium/internal/bus"
	"github.com/canevoj/standarium/internal/domain"
)

func TestSetProductsEmitsChangeEvent(t *testing.T) {
	b := bus.New()
	s := New(b)

	fired := 0
	b.On(bus.TopicProductsChanged, func(payload interface{}) { fired++ })

	s.SetProducts([]domain.Product{{ID: 1, Name: "SSD 1TB"}})
	s.SetProducts(nil)

	if fired != 2 {
		t.Fatalf("products.changed fired %d times, want 2", fired)
	}
}

func TestGetProductsReturnsDefensiveCopy(t *testing.T) {
	s := New(bus.New())
	in := []domain.Product{
		{ID: 1, Name: "SSD 1TB"},
		{ID: 2, Name: "RAM 16GB"},
	}
	s.SetProducts(in)

	got := s.GetProducts()
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("GetProducts = %+v, want %+v", got, in)
	}

	// Mutating the returned slice must not leak into the store.
	got[0].Name = "tampered"
	again := s.GetProducts()
	if again[0].Name != "SSD 1TB" {
		t.Fatalf("store mutated through returned copy: %q", again[0].Name)
	}
}

func TestSetReplacesCollectionWholesale(t *testing.T) {
	s := New(bus.New())
	s.SetServices([]domain.Service{{ID: 1, Name: "Repair"}, {ID: 2, Name: "Setup"}})
	s.SetServices([]domain.Service{{ID: 3, Name: "Cleaning"}})

	got := s.GetServices()
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("snapshot not replaced wholesale: %+v", got)
	}
}

func TestEmptyCollections(t *testing.T) {
	s := New(bus.New())
	if got := s.GetComponents(); len(got) != 0 {
		t.Fatalf("expected empty components, got %+v", got)
	}
	if got := s.GetSales(); len(got) != 0 {
		t.Fatalf("expected empty sales, got %+v", got)
	}
}
