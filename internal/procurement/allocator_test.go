package procurement

import (
	"reflect"
	"strings"
	"testing"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func butterSnapshot() Snapshot {
	return Snapshot{
		Params:    oneUnitPerDay(butterToast()),
		Inventory: []domain.InventoryItem{{ID: "inv-butter", Name: "Butter", Quantity: 2, MinLevel: 5, Unit: "pc"}},
		Catalog:   []domain.CatalogIngredient{{ID: "lib-butter", Name: "Butter", TotalQuantity: 10}},
		Suppliers: []domain.Supplier{
			{
				ID: "A", Name: "Market A", Type: domain.SupplierPhysical,
				LeadTimeDays: intPtr(0), DistanceKm: floatPtr(10),
				Products: []domain.SupplierProduct{{IngredientID: "lib-butter", Price: 40}},
			},
			{
				ID: "B", Name: "Web shop B", Type: domain.SupplierOnline,
				LeadTimeDays: intPtr(3),
				Products:     []domain.SupplierProduct{{IngredientID: "lib-butter", Price: 35}},
			},
		},
	}
}

func TestPlanButterScenario(t *testing.T) {
	plan := Plan(butterSnapshot(), DefaultOptions())

	if len(plan.Unassigned) != 0 {
		t.Fatalf("expected no unassigned items, got %+v", plan.Unassigned)
	}
	group, ok := plan.RouteGroups["A"]
	if !ok || len(group.Items) != 1 {
		t.Fatalf("expected butter routed to supplier A, got %+v", plan.RouteGroups)
	}

	opt := group.Items[0]
	if opt.Packs != 2 || opt.Analysis.Winner.ProductCost != 80 || opt.Analysis.Winner.LogisticsCost != 50 {
		t.Fatalf("unexpected winner breakdown: %+v", opt.Analysis.Winner)
	}
	if opt.TotalCost != 130 {
		t.Fatalf("expected total 130, got %v", opt.TotalCost)
	}
	if opt.Reason != ReasonUrgent {
		t.Fatalf("expected reason %q, got %q", ReasonUrgent, opt.Reason)
	}

	alts := opt.Analysis.Alternatives
	if len(alts) != 2 || alts[0].SupplierID != "A" || alts[1].SupplierID != "B" {
		t.Fatalf("expected alternatives sorted A then B, got %+v", alts)
	}
	if alts[1].IsFeasible || !domain.IsNever(alts[1].TotalCost) || alts[1].Note != NoteTooLate {
		t.Fatalf("expected B infeasible by lead time, got %+v", alts[1])
	}

	if group.TotalCost != 80 || group.LogisticsCost != 50 || group.GrandTotal() != 130 {
		t.Fatalf("unexpected route totals: %+v", group)
	}
}

func TestOverrideWinsOverCheaperOption(t *testing.T) {
	snap := butterSnapshot()
	snap.Overrides = domain.Overrides{"inv-butter": "B"}

	plan := Plan(snap, DefaultOptions())
	group, ok := plan.RouteGroups["B"]
	if !ok || len(group.Items) != 1 {
		t.Fatalf("expected override to route butter to B, got %+v", plan.RouteGroups)
	}
	if _, ok := plan.RouteGroups["A"]; ok {
		t.Fatalf("supplier A must not receive the overridden item")
	}

	opt := group.Items[0]
	if !opt.Overridden || opt.Reason != ReasonOverrideLate {
		t.Fatalf("expected late override reason, got %q (overridden=%v)", opt.Reason, opt.Overridden)
	}
	w := opt.Analysis.Winner
	if !w.IsFeasible || !strings.HasPrefix(w.Note, NoteRisky) {
		t.Fatalf("forced late supplier must stay feasible and flagged risky: %+v", w)
	}
	// 2 packs * 35 + 30 shipping
	if w.TotalCost != 100 {
		t.Fatalf("expected 100, got %v", w.TotalCost)
	}
}

func TestOverrideToSupplierWithoutStockIsIgnored(t *testing.T) {
	snap := butterSnapshot()
	snap.Suppliers = append(snap.Suppliers, domain.Supplier{ID: "C", Name: "Hardware", Type: domain.SupplierPhysical})
	snap.Overrides = domain.Overrides{"inv-butter": "C"}

	plan := Plan(snap, DefaultOptions())
	if _, ok := plan.RouteGroups["A"]; !ok {
		t.Fatalf("expected fallback to cheapest supplier A, got %+v", plan.RouteGroups)
	}
	if _, ok := plan.RouteGroups["C"]; ok {
		t.Fatalf("supplier without stock must never win")
	}
}

func TestSunkCostReuseForSecondItem(t *testing.T) {
	catalog := CatalogIndex([]domain.CatalogIngredient{{ID: "flour", TotalQuantity: 1}, {ID: "sugar", TotalQuantity: 1}})
	suppliers := []domain.Supplier{
		{
			ID: "P", Name: "Makro", Type: domain.SupplierPhysical, DistanceKm: floatPtr(10),
			Products: []domain.SupplierProduct{{IngredientID: "flour", Price: 40}, {IngredientID: "sugar", Price: 40}},
		},
		{
			ID: "O", Name: "Online", Type: domain.SupplierOnline, LeadTimeDays: intPtr(1),
			Products: []domain.SupplierProduct{{IngredientID: "flour", Price: 80}, {IngredientID: "sugar", Price: 35}},
		},
	}
	needs := []domain.NeededItem{
		{ID: "i-flour", Name: "Flour", LibID: "flour", ToBuy: 1, DaysLeft: 10},
		{ID: "i-sugar", Name: "Sugar", LibID: "sugar", ToBuy: 1, DaysLeft: 10},
	}

	plan := NewAllocator(DefaultOptions()).Allocate(needs, suppliers, catalog, nil)
	group, ok := plan.RouteGroups["P"]
	if !ok || len(group.Items) != 2 {
		t.Fatalf("expected both items at P, got %+v", plan.RouteGroups)
	}

	first, second := group.Items[0].Analysis.Winner, group.Items[1].Analysis.Winner
	if first.LogisticsCost != 50 {
		t.Fatalf("first item should pay the trip, got %v", first.LogisticsCost)
	}
	if second.LogisticsCost != 0 || second.Note != NoteSunkCost {
		t.Fatalf("second item should ride along for free, got %+v", second)
	}
	if group.Items[1].Reason != ReasonCombined {
		t.Fatalf("expected combined reason, got %q", group.Items[1].Reason)
	}
	if group.TotalCost != 80 || group.LogisticsCost != 50 {
		t.Fatalf("route must sum product cost and count the trip once: %+v", group)
	}
}

func TestAllocationIsOrderSensitive(t *testing.T) {
	catalog := CatalogIndex([]domain.CatalogIngredient{{ID: "x", TotalQuantity: 1}, {ID: "y", TotalQuantity: 1}})
	suppliers := []domain.Supplier{
		{ID: "P", Type: domain.SupplierPhysical, DistanceKm: floatPtr(10),
			Products: []domain.SupplierProduct{{IngredientID: "x", Price: 10}, {IngredientID: "y", Price: 30}}},
		{ID: "O", Type: domain.SupplierOnline, LeadTimeDays: intPtr(0),
			Products: []domain.SupplierProduct{{IngredientID: "x", Price: 100}, {IngredientID: "y", Price: 10}}},
	}
	x := domain.NeededItem{ID: "x", LibID: "x", ToBuy: 1, DaysLeft: 5}
	y := domain.NeededItem{ID: "y", LibID: "y", ToBuy: 1, DaysLeft: 5}
	a := NewAllocator(DefaultOptions())

	// x first commits P (60 < 130), then y is 30 at P vs 40 online
	xy := a.Allocate([]domain.NeededItem{x, y}, suppliers, catalog, nil)
	if len(xy.RouteGroups["P"].Items) != 2 {
		t.Fatalf("expected both at P when x goes first, got %+v", xy.RouteOrder)
	}

	// y first goes online (40 < 80), x still prefers P
	yx := a.Allocate([]domain.NeededItem{y, x}, suppliers, catalog, nil)
	if len(yx.RouteGroups) != 2 {
		t.Fatalf("expected split routes when y goes first, got %+v", yx.RouteOrder)
	}
}

func TestNoFeasibleSupplierIsUnassigned(t *testing.T) {
	snap := butterSnapshot()
	snap.Inventory = append(snap.Inventory, domain.InventoryItem{ID: "inv-saffron", Name: "Saffron", Quantity: 0, MinLevel: 1})

	plan := Plan(snap, DefaultOptions())
	if len(plan.Unassigned) != 1 || plan.Unassigned[0].ID != "inv-saffron" {
		t.Fatalf("expected saffron unassigned, got %+v", plan.Unassigned)
	}
	for id, g := range plan.RouteGroups {
		for _, it := range g.Items {
			if it.Item.ID == "inv-saffron" {
				t.Fatalf("unassigned item found in route %s", id)
			}
		}
	}
}

func TestOnlyLateSuppliersLeavesItemUnassigned(t *testing.T) {
	snap := butterSnapshot()
	snap.Suppliers = snap.Suppliers[1:]

	plan := Plan(snap, DefaultOptions())
	if len(plan.RouteGroups) != 0 || len(plan.Unassigned) != 1 {
		t.Fatalf("expected butter unassigned when only the slow shop stocks it, got %+v", plan)
	}
}

func TestTieKeepsFirstSupplier(t *testing.T) {
	catalog := CatalogIndex([]domain.CatalogIngredient{{ID: "egg", TotalQuantity: 30}})
	suppliers := []domain.Supplier{
		{ID: "first", Type: domain.SupplierOnline, LeadTimeDays: intPtr(1), Products: []domain.SupplierProduct{{IngredientID: "egg", Price: 120}}},
		{ID: "second", Type: domain.SupplierOnline, LeadTimeDays: intPtr(1), Products: []domain.SupplierProduct{{IngredientID: "egg", Price: 120}}},
	}
	needs := []domain.NeededItem{{ID: "egg", LibID: "egg", ToBuy: 20, DaysLeft: 4}}

	plan := NewAllocator(DefaultOptions()).Allocate(needs, suppliers, catalog, nil)
	if _, ok := plan.RouteGroups["first"]; !ok {
		t.Fatalf("expected tie to go to the first supplier, got %+v", plan.RouteOrder)
	}
}

func TestLogisticsTiers(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	catalog := CatalogIndex([]domain.CatalogIngredient{{ID: "milk", TotalQuantity: 1}})
	item := domain.NeededItem{ID: "milk", LibID: "milk", ToBuy: 1, DaysLeft: 10}
	stock := []domain.SupplierProduct{{IngredientID: "milk", Price: 10}}

	tests := []struct {
		name     string
		supplier domain.Supplier
		index    int
		visited  VisitedStores
		want     float64
		note     string
	}{
		{"online", domain.Supplier{ID: "o", Type: domain.SupplierOnline, Products: stock}, 0, nil, 30, NoteShipping},
		{"home", domain.Supplier{ID: "h", Type: domain.SupplierPhysical, IsHome: true, Products: stock}, 0, nil, 0, NoteHome},
		{"visited", domain.Supplier{ID: "v", Type: domain.SupplierPhysical, DistanceKm: floatPtr(4), Products: stock}, 0, VisitedStores{"v": {}}, 0, NoteSunkCost},
		{"distance", domain.Supplier{ID: "d", Type: domain.SupplierPhysical, DistanceKm: floatPtr(4), Products: stock}, 0, nil, 20, NoteTravel},
		{"unknown distance", domain.Supplier{ID: "u", Type: domain.SupplierPhysical, Products: stock}, 2, nil, 90, NoteTravelGuess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := a.Evaluate(item, tt.supplier, tt.index, catalog, false, tt.visited)
			if !b.IsFeasible {
				t.Fatalf("expected feasible option, got %+v", b)
			}
			if b.LogisticsCost != tt.want || b.Note != tt.note {
				t.Fatalf("expected %v (%s), got %v (%s)", tt.want, tt.note, b.LogisticsCost, b.Note)
			}
			if b.TotalCost != 10+tt.want {
				t.Fatalf("expected total %v, got %v", 10+tt.want, b.TotalCost)
			}
		})
	}
}

func TestOnlineLeadTimeDefault(t *testing.T) {
	a := NewAllocator(DefaultOptions())
	catalog := CatalogIndex([]domain.CatalogIngredient{{ID: "tea", TotalQuantity: 1}})
	online := domain.Supplier{ID: "o", Type: domain.SupplierOnline, Products: []domain.SupplierProduct{{IngredientID: "tea", Price: 5}}}

	b := a.Evaluate(domain.NeededItem{LibID: "tea", ToBuy: 1, DaysLeft: 2.5}, online, 0, catalog, false, nil)
	if b.LeadTimeDays != 3 || b.IsFeasible {
		t.Fatalf("expected default 3-day lead time to be infeasible, got %+v", b)
	}
}

func TestPlanIsDeterministicAndDoesNotMutateInputs(t *testing.T) {
	snap := butterSnapshot()
	snap.Inventory = append(snap.Inventory,
		domain.InventoryItem{ID: "inv-bread", Name: "Bread", Quantity: 1, MinLevel: 10},
	)
	snap.Catalog = append(snap.Catalog, domain.CatalogIngredient{ID: "lib-bread", Name: "Bread", TotalQuantity: 6})
	snap.Suppliers[0].Products = append(snap.Suppliers[0].Products, domain.SupplierProduct{IngredientID: "lib-bread", Price: 45})

	before := len(snap.Suppliers[0].Products)
	first := Plan(snap, DefaultOptions())
	second := Plan(snap, DefaultOptions())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ for identical inputs:\n%+v\n%+v", first, second)
	}
	if len(snap.Suppliers[0].Products) != before || snap.Inventory[0].Quantity != 2 {
		t.Fatalf("planning mutated its inputs")
	}
}

func TestSeedVisitedOnlyUsesPhysicalOverridesForNeededItems(t *testing.T) {
	suppliers := []domain.Supplier{
		{ID: "shop", Type: domain.SupplierPhysical},
		{ID: "web", Type: domain.SupplierOnline},
		{ID: "other", Type: domain.SupplierPhysical},
	}
	needs := []domain.NeededItem{{ID: "a"}, {ID: "b"}}
	overrides := domain.Overrides{"a": "shop", "b": "web", "gone": "other"}

	visited := SeedVisited(needs, suppliers, overrides)
	if !visited.Has("shop") || visited.Has("web") || visited.Has("other") {
		t.Fatalf("unexpected seeded stores: %v", visited)
	}
}
