package domain

import "time"

// NeededItem is one under-threshold inventory item for a single planning pass.
type NeededItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Unit        string       `json:"unit"`
	Category    ItemCategory `json:"category"`
	Current     float64      `json:"current"`
	ToBuy       float64      `json:"to_buy"`
	UsagePerDay float64      `json:"usage_per_day"`
	DaysLeft    float64      `json:"days_left"`
	IsUrgent    bool         `json:"is_urgent"`
	LibID       string       `json:"lib_id,omitempty"`
	CostPerUnit float64      `json:"cost_per_unit"`
}

// CostBreakdown is the evaluation of one item at one supplier.
// TotalCost is +Inf when the option is infeasible.
type CostBreakdown struct {
	SupplierID    string  `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name"`
	Packs         int     `json:"packs"`
	UnitPrice     float64 `json:"unit_price"`
	ProductCost   float64 `json:"product_cost"`
	LogisticsCost float64 `json:"logistics_cost"`
	TotalCost     float64 `json:"total_cost"`
	Note          string  `json:"note"`
	IsFeasible    bool    `json:"is_feasible"`
	LeadTimeDays  int     `json:"lead_time_days"`
	DaysLeft      float64 `json:"days_left"`
}

type Analysis struct {
	Winner       CostBreakdown   `json:"winner"`
	Alternatives []CostBreakdown `json:"alternatives"`
}

// PurchaseOption binds a needed item to the supplier that won it.
type PurchaseOption struct {
	Item       NeededItem `json:"item"`
	SupplierID string     `json:"supplier_id"`
	Qty        float64    `json:"qty"`
	Packs      int        `json:"packs"`
	PackSize   float64    `json:"pack_size"`
	UnitPrice  float64    `json:"unit_price"`
	TotalCost  float64    `json:"total_cost"`
	Reason     string     `json:"reason"`
	Overridden bool       `json:"overridden"`
	Analysis   Analysis   `json:"analysis"`
}

// RouteGroup is everything to buy from one supplier. TotalCost sums product
// cost only; the trip's LogisticsCost is attributed once to the group.
type RouteGroup struct {
	Supplier      Supplier         `json:"supplier"`
	Items         []PurchaseOption `json:"items"`
	TotalCost     float64          `json:"total_cost"`
	LogisticsCost float64          `json:"logistics_cost"`
}

func (g RouteGroup) GrandTotal() float64 {
	return g.TotalCost + g.LogisticsCost
}

// Overrides maps an inventory item id to the supplier id a human forced for it.
type Overrides map[string]string

// Plan is the output of one planning pass. RouteOrder lists supplier ids in
// the order their first item was committed.
type Plan struct {
	ID          string                 `json:"id,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
	RouteGroups map[string]*RouteGroup `json:"route_groups"`
	RouteOrder  []string               `json:"route_order"`
	Unassigned  []NeededItem           `json:"unassigned"`
}

// Routes returns the route groups in commit order.
func (p *Plan) Routes() []*RouteGroup {
	out := make([]*RouteGroup, 0, len(p.RouteOrder))
	for _, id := range p.RouteOrder {
		if g, ok := p.RouteGroups[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Total is the sum of every route's product and logistics cost.
func (p *Plan) Total() float64 {
	var total float64
	for _, g := range p.RouteGroups {
		total += g.GrandTotal()
	}
	return total
}
