package memory

import (
	"context"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

// DemoShopID is the shop the seeded store keeps its parameters under.
const DemoShopID = "main"

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

// NewSeeded returns a store filled with a small toast shop: four menu items,
// a handful of low-stock ingredients and four suppliers.
func NewSeeded(now time.Time) *Store {
	s := New()
	ctx := context.Background()

	_ = s.SaveParameters(ctx, DemoShopID, DemoParameters())

	for _, c := range []domain.CatalogIngredient{
		{ID: "lib-bread", Name: "Bread", Unit: "slice", TotalQuantity: 20, BulkPrice: 45},
		{ID: "lib-butter", Name: "Butter", Unit: "block", TotalQuantity: 1, BulkPrice: 85},
		{ID: "lib-condensed-milk", Name: "Condensed Milk", Unit: "can", TotalQuantity: 1, BulkPrice: 28},
		{ID: "lib-chocolate", Name: "Chocolate Sauce", Unit: "bottle", TotalQuantity: 1, BulkPrice: 120},
		{ID: "lib-paper-bag", Name: "Paper Bag", Unit: "piece", TotalQuantity: 100, BulkPrice: 150},
	} {
		c := c
		_ = s.UpsertCatalogIngredient(ctx, &c)
	}

	for _, sup := range []domain.Supplier{
		{
			ID: "sup-home", Name: "Home Stock", Type: domain.SupplierPhysical, IsHome: true, SortOrder: 0,
			Products: []domain.SupplierProduct{{IngredientID: "lib-paper-bag", Price: 150}},
		},
		{
			ID: "sup-makro", Name: "Makro", Type: domain.SupplierPhysical, DistanceKm: floatPtr(8), SortOrder: 1,
			Products: []domain.SupplierProduct{
				{IngredientID: "lib-bread", Price: 42},
				{IngredientID: "lib-butter", Price: 80},
				{IngredientID: "lib-condensed-milk", Price: 26},
				{IngredientID: "lib-chocolate", Price: 115},
			},
		},
		{
			ID: "sup-market", Name: "Morning Market", Type: domain.SupplierPhysical, SortOrder: 2,
			Products: []domain.SupplierProduct{
				{IngredientID: "lib-bread", Price: 38},
				{IngredientID: "lib-butter", Price: 90},
			},
		},
		{
			ID: "sup-online", Name: "Online Wholesale", Type: domain.SupplierOnline, LeadTimeDays: intPtr(2), SortOrder: 3,
			Products: []domain.SupplierProduct{
				{IngredientID: "lib-condensed-milk", Price: 22},
				{IngredientID: "lib-chocolate", Price: 95},
				{IngredientID: "lib-paper-bag", Price: 120},
			},
		},
	} {
		sup := sup
		_ = s.UpsertSupplier(ctx, &sup)
	}

	for _, it := range []domain.InventoryItem{
		{
			ID: "inv-bread", Name: "Bread", Quantity: 30, MinLevel: 40, Unit: "slice", CostPerUnit: 2.25,
			Type: domain.ItemTypeStock, Category: domain.CategoryIngredient, LibID: "lib-bread",
			Batches: []domain.Batch{
				{ID: "b-bread-1", Quantity: 30, CostPerUnit: 2.25, ReceivedAt: now.AddDate(0, 0, -2), ExpiresAt: timePtr(now.AddDate(0, 0, 1))},
			},
		},
		{
			ID: "inv-butter", Name: "Butter", Quantity: 2, MinLevel: 3, Unit: "block", CostPerUnit: 85,
			Type: domain.ItemTypeStock, Category: domain.CategoryIngredient, LibID: "lib-butter",
		},
		{
			ID: "inv-condensed-milk", Name: "Condensed Milk", Quantity: 6, MinLevel: 4, Unit: "can", CostPerUnit: 28,
			Type: domain.ItemTypeStock, Category: domain.CategoryIngredient, LibID: "lib-condensed-milk",
		},
		{
			ID: "inv-chocolate", Name: "Chocolate Sauce", Quantity: 1, MinLevel: 2, Unit: "bottle", CostPerUnit: 120,
			Type: domain.ItemTypeStock, Category: domain.CategoryIngredient, LibID: "lib-chocolate",
		},
		{
			ID: "inv-paper-bag", Name: "Paper Bag", Quantity: 40, MinLevel: 50, Unit: "piece", CostPerUnit: 1.5,
			Type: domain.ItemTypeStock, Category: domain.CategoryPackaging, LibID: "lib-paper-bag",
		},
		{
			ID: "inv-toaster", Name: "Toaster", Quantity: 2, MinLevel: 0, Unit: "unit", CostPerUnit: 2500,
			Type: domain.ItemTypeAsset, Category: domain.CategoryAsset,
		},
	} {
		it := it
		_ = s.UpsertInventoryItem(ctx, &it)
	}

	return s
}

// DemoParameters is the parameter set the seeded store starts from.
func DemoParameters() *domain.BusinessParameters {
	return &domain.BusinessParameters{
		FixedCosts: domain.FixedCosts{Rent: 300, Transport: 80, Electricity: 100, Labor: 400},
		EquipmentAssets: []domain.EquipmentAsset{
			{Name: "Toaster", PurchasePrice: 2500, ResalePrice: 500, LifespanDays: 730, Quantity: 2},
			{Name: "Food cart", PurchasePrice: 15000, ResalePrice: 3000, LifespanDays: 1825, Quantity: 1},
		},
		Traffic: domain.Traffic{OpenHours: 6, CustomersPerHour: 50, ConversionRatePercent: 20, AvgUnitsPerBill: 2},
		MenuItems: []domain.MenuItem{
			{
				ID: "menu-butter-sugar", Name: "Butter Sugar Toast", Category: "toast", SellingPrice: 45,
				Ingredients: []domain.MenuIngredient{
					{Name: "Bread", LibID: "lib-bread", Quantity: 2, Cost: 4.5},
					{Name: "Butter", LibID: "lib-butter", Quantity: 0.05, Cost: 4.25},
					{Name: "Paper Bag", LibID: "lib-paper-bag", Quantity: 1, Cost: 1.5},
				},
			},
			{
				ID: "menu-condensed", Name: "Condensed Milk Toast", Category: "toast", SellingPrice: 50,
				Ingredients: []domain.MenuIngredient{
					{Name: "Bread", LibID: "lib-bread", Quantity: 2, Cost: 4.5},
					{Name: "Condensed Milk", LibID: "lib-condensed-milk", Quantity: 0.1, Cost: 2.8},
					{Name: "Paper Bag", LibID: "lib-paper-bag", Quantity: 1, Cost: 1.5},
				},
			},
			{
				ID: "menu-chocolate", Name: "Chocolate Toast", Category: "toast", SellingPrice: 55,
				Ingredients: []domain.MenuIngredient{
					{Name: "Bread", LibID: "lib-bread", Quantity: 2, Cost: 4.5},
					{Name: "Chocolate Sauce", LibID: "lib-chocolate", Quantity: 0.05, Cost: 6},
					{Name: "Paper Bag", LibID: "lib-paper-bag", Quantity: 1, Cost: 1.5},
				},
			},
		},
		HiddenCosts: domain.HiddenCosts{WastePercent: 5, PromoLossPercent: 3, PaymentFeePercent: 2},
		Pricing:     domain.Pricing{PromoType: domain.PromoBundle, BundleQty: 3, BundlePrice: 130},
	}
}
