package domain

type SupplierType string

const (
	SupplierPhysical SupplierType = "physical"
	SupplierOnline   SupplierType = "online"
)

// SupplierProduct is a supplier's price for one pack of a catalog ingredient.
type SupplierProduct struct {
	IngredientID string  `json:"ingredient_id" db:"ingredient_id"`
	Price        float64 `json:"price" db:"price"`
}

// Supplier is a place to buy from. LeadTimeDays and DistanceKm are optional;
// a nil lead time means the type default applies.
type Supplier struct {
	ID           string            `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	Type         SupplierType      `json:"type" db:"supplier_type"`
	LeadTimeDays *int              `json:"lead_time_days,omitempty" db:"lead_time_days"`
	DistanceKm   *float64          `json:"distance_km,omitempty" db:"distance_km"`
	IsHome       bool              `json:"is_home" db:"is_home"`
	SortOrder    int               `json:"sort_order" db:"sort_order"`
	Products     []SupplierProduct `json:"products" db:"-"`
}

func (s Supplier) IsPhysical() bool {
	return s.Type != SupplierOnline
}

// Product returns the supplier's price entry for the given catalog ingredient.
func (s Supplier) Product(ingredientID string) (SupplierProduct, bool) {
	if ingredientID == "" {
		return SupplierProduct{}, false
	}
	for _, p := range s.Products {
		if p.IngredientID == ingredientID {
			return p, true
		}
	}
	return SupplierProduct{}, false
}

// LeadTime resolves the effective lead time: explicit value, else 0 for
// physical stores and onlineDefault for online shops.
func (s Supplier) LeadTime(onlineDefault int) int {
	if s.LeadTimeDays != nil {
		return *s.LeadTimeDays
	}
	if s.IsPhysical() {
		return 0
	}
	return onlineDefault
}
