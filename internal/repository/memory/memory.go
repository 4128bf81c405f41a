// Package memory is an in-process repository.Store used by tests and the
// demo mode of the server when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
)

type Store struct {
	mu        sync.RWMutex
	params    map[string]domain.BusinessParameters
	inventory map[string]domain.InventoryItem
	suppliers map[string]domain.Supplier
	catalog   map[string]domain.CatalogIngredient
	overrides domain.Overrides
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		params:    make(map[string]domain.BusinessParameters),
		inventory: make(map[string]domain.InventoryItem),
		suppliers: make(map[string]domain.Supplier),
		catalog:   make(map[string]domain.CatalogIngredient),
		overrides: make(domain.Overrides),
	}
}

func (s *Store) GetParameters(_ context.Context, shopID string) (*domain.BusinessParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.params[shopID]
	if !ok {
		return nil, fmt.Errorf("business parameters for %s: %w", shopID, repository.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) SaveParameters(_ context.Context, shopID string, params *domain.BusinessParameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params[shopID] = *params
	return nil
}

func (s *Store) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, it := range s.inventory {
		it.Batches = append([]domain.Batch(nil), it.Batches...)
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) UpsertInventoryItem(_ context.Context, item *domain.InventoryItem) error {
	if item.Quantity < 0 {
		return fmt.Errorf("inventory item %s: quantity must not be negative", item.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *item
	cp.Batches = append([]domain.Batch(nil), item.Batches...)
	s.inventory[item.ID] = cp
	return nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		out = append(out, copySupplier(sup))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) FindSupplierByName(_ context.Context, name string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sup := range s.suppliers {
		if strings.EqualFold(sup.Name, strings.TrimSpace(name)) {
			cp := copySupplier(sup)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("supplier %q: %w", name, repository.ErrNotFound)
}

func (s *Store) UpsertSupplier(_ context.Context, supplier *domain.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copySupplier(*supplier)
	if existing, ok := s.suppliers[supplier.ID]; ok {
		cp.Products = mergePrices(existing.Products, supplier.Products)
	}
	s.suppliers[supplier.ID] = cp
	return nil
}

func (s *Store) UpsertSupplierPrices(_ context.Context, supplierID string, prices []domain.SupplierProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sup, ok := s.suppliers[supplierID]
	if !ok {
		return fmt.Errorf("supplier %s: %w", supplierID, repository.ErrNotFound)
	}
	sup.Products = mergePrices(sup.Products, prices)
	s.suppliers[supplierID] = sup
	return nil
}

func (s *Store) ListCatalog(_ context.Context) ([]domain.CatalogIngredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatalogIngredient, 0, len(s.catalog))
	for _, c := range s.catalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpsertCatalogIngredient(_ context.Context, ing *domain.CatalogIngredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog[ing.ID] = *ing
	return nil
}

func (s *Store) ListOverrides(_ context.Context) (domain.Overrides, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.Overrides, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SetOverride(_ context.Context, itemID, supplierID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventory[itemID]; !ok {
		return fmt.Errorf("inventory item %s: %w", itemID, repository.ErrNotFound)
	}
	if _, ok := s.suppliers[supplierID]; !ok {
		return fmt.Errorf("supplier %s: %w", supplierID, repository.ErrNotFound)
	}
	s.overrides[itemID] = supplierID
	return nil
}

func (s *Store) ClearOverride(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.overrides[itemID]; !ok {
		return fmt.Errorf("override for %s: %w", itemID, repository.ErrNotFound)
	}
	delete(s.overrides, itemID)
	return nil
}

func copySupplier(s domain.Supplier) domain.Supplier {
	s.Products = append([]domain.SupplierProduct(nil), s.Products...)
	return s
}

func mergePrices(current, updates []domain.SupplierProduct) []domain.SupplierProduct {
	out := append([]domain.SupplierProduct(nil), current...)
	for _, u := range updates {
		replaced := false
		for i := range out {
			if out[i].IngredientID == u.IngredientID {
				out[i].Price = u.Price
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, u)
		}
	}
	return out
}
