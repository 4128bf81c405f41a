// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type ParametersRepository interface {
	GetParameters(ctx context.Context, shopID string) (*domain.BusinessParameters, error)
	SaveParameters(ctx context.Context, shopID string, params *domain.BusinessParameters) error
}

type InventoryRepository interface {
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	UpsertInventoryItem(ctx context.Context, item *domain.InventoryItem) error
}

// SupplierRepository lists suppliers in a stable sort_order, id order; the
// allocator's tie-break and fallback logistics depend on it.
type SupplierRepository interface {
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	FindSupplierByName(ctx context.Context, name string) (*domain.Supplier, error)
	UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error
	UpsertSupplierPrices(ctx context.Context, supplierID string, prices []domain.SupplierProduct) error
}

type CatalogRepository interface {
	ListCatalog(ctx context.Context) ([]domain.CatalogIngredient, error)
	UpsertCatalogIngredient(ctx context.Context, ingredient *domain.CatalogIngredient) error
}

type OverrideRepository interface {
	ListOverrides(ctx context.Context) (domain.Overrides, error)
	SetOverride(ctx context.Context, itemID, supplierID string) error
	ClearOverride(ctx context.Context, itemID string) error
}

// Store bundles every repository the planner reads from.
type Store interface {
	ParametersRepository
	InventoryRepository
	SupplierRepository
	CatalogRepository
	OverrideRepository
}
