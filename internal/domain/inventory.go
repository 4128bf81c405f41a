package domain

import "time"

type ItemType string

const (
	ItemTypeStock ItemType = "stock"
	ItemTypeAsset ItemType = "asset"
)

type ItemCategory string

const (
	CategoryIngredient ItemCategory = "ingredient"
	CategoryPackaging  ItemCategory = "packaging"
	CategoryAsset      ItemCategory = "asset"
)

// Batch is a lot-tracked portion of an inventory item.
type Batch struct {
	ID          string     `json:"id" db:"id"`
	Quantity    float64    `json:"quantity" db:"quantity"`
	CostPerUnit float64    `json:"cost_per_unit" db:"cost_per_unit"`
	ReceivedAt  time.Time  `json:"received_at" db:"received_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
}

// InventoryItem is owned by the surrounding application. For assets, Quantity
// counts identical units and CostPerUnit is the purchase price per unit.
type InventoryItem struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Quantity    float64      `json:"quantity" db:"quantity"`
	MinLevel    float64      `json:"min_level" db:"min_level"`
	Unit        string       `json:"unit" db:"unit"`
	CostPerUnit float64      `json:"cost_per_unit" db:"cost_per_unit"`
	Type        ItemType     `json:"type" db:"item_type"`
	Category    ItemCategory `json:"category" db:"category"`
	LibID       string       `json:"lib_id,omitempty" db:"lib_id"`
	Batches     []Batch      `json:"batches,omitempty" db:"-"`
}

// BatchQuantity sums the quantity held across lots.
func (i InventoryItem) BatchQuantity() float64 {
	var total float64
	for _, b := range i.Batches {
		total += b.Quantity
	}
	return total
}

// ExpiringWithin returns the non-empty lots that expire before now+window.
func (i InventoryItem) ExpiringWithin(now time.Time, window time.Duration) []Batch {
	var out []Batch
	cutoff := now.Add(window)
	for _, b := range i.Batches {
		if b.ExpiresAt == nil || b.Quantity <= 0 {
			continue
		}
		if b.ExpiresAt.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out
}

// CatalogIngredient is an entry of the central ingredient catalog. TotalQuantity
// is the number of natural units in one purchasable pack.
type CatalogIngredient struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Unit          string  `json:"unit" db:"unit"`
	TotalQuantity float64 `json:"total_quantity" db:"total_quantity"`
	BulkPrice     float64 `json:"bulk_price" db:"bulk_price"`
}

// PackSize is the natural-unit size of one pack, never less than 1.
func (c CatalogIngredient) PackSize() float64 {
	if c.TotalQuantity <= 0 {
		return 1
	}
	return c.TotalQuantity
}
