package procurement

import "github.com/andresuchdata/toastshop/backend-go/internal/domain"

// Snapshot is everything one planning pass reads.
type Snapshot struct {
	Params    domain.BusinessParameters
	Inventory []domain.InventoryItem
	Suppliers []domain.Supplier
	Catalog   []domain.CatalogIngredient
	Overrides domain.Overrides
}

// Plan runs need detection then allocation over the snapshot. The same
// snapshot always yields the same plan.
func Plan(snap Snapshot, opts Options) *domain.Plan {
	needs := DetectNeeds(snap.Params, snap.Inventory, snap.Catalog)
	return NewAllocator(opts).Allocate(needs, snap.Suppliers, CatalogIndex(snap.Catalog), snap.Overrides)
}
