package procurement

import (
	"math"
	"testing"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

// oneUnitPerDay sells exactly one unit a day: 1h * 10 customers * 10% * 1 unit.
func oneUnitPerDay(menu ...domain.MenuItem) domain.BusinessParameters {
	return domain.BusinessParameters{
		Traffic:   domain.Traffic{OpenHours: 1, CustomersPerHour: 10, ConversionRatePercent: 10, AvgUnitsPerBill: 1},
		MenuItems: menu,
	}
}

func butterToast() domain.MenuItem {
	return domain.MenuItem{
		Name:         "butter toast",
		SellingPrice: 45,
		Ingredients:  []domain.MenuIngredient{{Name: "Butter", LibID: "lib-butter", Quantity: 1, Cost: 4}},
	}
}

func findNeed(needs []domain.NeededItem, id string) (domain.NeededItem, bool) {
	for _, n := range needs {
		if n.ID == id {
			return n, true
		}
	}
	return domain.NeededItem{}, false
}

func TestDetectNeedsButterScenario(t *testing.T) {
	params := oneUnitPerDay(butterToast())
	inventory := []domain.InventoryItem{{ID: "inv-butter", Name: "Butter", Quantity: 2, MinLevel: 5, Unit: "pc"}}
	catalog := []domain.CatalogIngredient{{ID: "lib-butter", Name: "Butter", Unit: "pc", TotalQuantity: 10, BulkPrice: 40}}

	needs := DetectNeeds(params, inventory, catalog)
	if len(needs) != 1 {
		t.Fatalf("expected 1 needed item, got %d", len(needs))
	}

	n := needs[0]
	if n.UsagePerDay != 1 {
		t.Fatalf("expected usage 1/day, got %v", n.UsagePerDay)
	}
	if n.DaysLeft != 2 {
		t.Fatalf("expected 2 days left, got %v", n.DaysLeft)
	}
	if !n.IsUrgent {
		t.Fatalf("expected butter to be urgent")
	}
	if n.ToBuy != 11 {
		t.Fatalf("expected to buy 11, got %v", n.ToBuy)
	}
	if n.LibID != "lib-butter" {
		t.Fatalf("expected catalog link lib-butter, got %q", n.LibID)
	}
}

func TestDetectNeedsSkipsStockedItems(t *testing.T) {
	params := oneUnitPerDay(butterToast())
	inventory := []domain.InventoryItem{
		{ID: "a", Name: "Butter", Quantity: 6, MinLevel: 5},
		{ID: "b", Name: "Bread", Quantity: 5, MinLevel: 5},
	}

	needs := DetectNeeds(params, inventory, nil)
	if _, ok := findNeed(needs, "a"); ok {
		t.Fatalf("item above min level must not be needed")
	}
	if _, ok := findNeed(needs, "b"); !ok {
		t.Fatalf("item exactly at min level must be needed")
	}
}

func TestDetectNeedsFallbackUsage(t *testing.T) {
	params := oneUnitPerDay(butterToast())
	inventory := []domain.InventoryItem{
		{ID: "cups", Name: "Paper cups", Quantity: 4, MinLevel: 10, Category: domain.CategoryPackaging},
		{ID: "bags", Name: "Bags", Quantity: 30, MinLevel: 40},
		{ID: "empty", Name: "Napkins", Quantity: 0, MinLevel: 0},
	}

	needs := DetectNeeds(params, inventory, nil)

	cups, _ := findNeed(needs, "cups")
	if cups.UsagePerDay != 1 || cups.DaysLeft != 4 || cups.ToBuy != 21 {
		t.Fatalf("unexpected fallback need for cups: %+v", cups)
	}

	bags, _ := findNeed(needs, "bags")
	if math.Abs(bags.UsagePerDay-3) > 1e-9 {
		t.Fatalf("expected 10%% depletion (3/day), got %v", bags.UsagePerDay)
	}

	empty, ok := findNeed(needs, "empty")
	if !ok {
		t.Fatalf("expected empty item to be needed")
	}
	if empty.DaysLeft != 0 || !empty.IsUrgent || empty.ToBuy != 5 {
		t.Fatalf("unexpected need for empty item: %+v", empty)
	}
}

func TestDetectNeedsEvenSplitAcrossMenu(t *testing.T) {
	params := domain.BusinessParameters{
		// 10 units a day split across two menu items
		Traffic: domain.Traffic{OpenHours: 1, CustomersPerHour: 100, ConversionRatePercent: 10, AvgUnitsPerBill: 1},
		MenuItems: []domain.MenuItem{
			{Name: "jam toast", Ingredients: []domain.MenuIngredient{{Name: "jam", Quantity: 2}}},
			{Name: "plain toast", Ingredients: []domain.MenuIngredient{{Name: "bread", Quantity: 1}}},
		},
	}
	inventory := []domain.InventoryItem{{ID: "jam", Name: "Jam", Quantity: 20, MinLevel: 30}}

	needs := DetectNeeds(params, inventory, nil)
	if len(needs) != 1 {
		t.Fatalf("expected 1 need, got %d", len(needs))
	}
	if needs[0].UsagePerDay != 10 {
		t.Fatalf("expected 10 units/day (10/2 menus * 2), got %v", needs[0].UsagePerDay)
	}
	// safe level = max(75, 50)
	if needs[0].ToBuy != 55 {
		t.Fatalf("expected to buy 55, got %v", needs[0].ToBuy)
	}
}

func TestDetectNeedsProperties(t *testing.T) {
	params := oneUnitPerDay(butterToast())
	inventory := []domain.InventoryItem{
		{ID: "1", Name: "Butter", Quantity: 0, MinLevel: 0},
		{ID: "2", Name: "Butter", Quantity: 0.5, MinLevel: 0.5},
		{ID: "3", Name: "Flour", Quantity: 1000, MinLevel: 2000},
		{ID: "4", Name: "Sugar", Quantity: 3, MinLevel: 1},
	}

	for _, n := range DetectNeeds(params, inventory, nil) {
		if n.ToBuy < 1 {
			t.Errorf("%s: toBuy %v < 1", n.ID, n.ToBuy)
		}
		if n.DaysLeft < 0 || math.IsInf(n.DaysLeft, 0) || math.IsNaN(n.DaysLeft) {
			t.Errorf("%s: bad days left %v", n.ID, n.DaysLeft)
		}
		if n.ID == "4" {
			t.Errorf("sugar is above min level and must not be needed")
		}
	}
}

func TestMatchCatalogPrefersIDLink(t *testing.T) {
	catalog := []domain.CatalogIngredient{
		{ID: "by-name", Name: "Milk"},
		{ID: "by-id", Name: "Fresh milk 1L"},
	}
	got, ok := matchCatalog(domain.InventoryItem{Name: "milk", LibID: "by-id"}, catalog)
	if !ok || got.ID != "by-id" {
		t.Fatalf("expected id link to win, got %+v", got)
	}
	got, ok = matchCatalog(domain.InventoryItem{Name: " MILK "}, catalog)
	if !ok || got.ID != "by-name" {
		t.Fatalf("expected case-insensitive name match, got %+v", got)
	}
}
