// Package procurement decides what the shop must restock and where to buy it.
// Nothing in here performs I/O or keeps state between calls.
package procurement

import (
	"math"
	"strings"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/finance"
)

const (
	urgentDaysLeft       = 2.0
	fallbackDepletion    = 0.1
	safeLevelMinMultiple = 2.5
	safeLevelDaysCover   = 5.0
)

// DetectNeeds returns one NeededItem per inventory item at or below its
// minimum level. Output order follows the inventory but is not significant.
//
// Daily usage splits daily unit sales evenly across menu items rather than by
// sales mix; this is a known approximation.
func DetectNeeds(params domain.BusinessParameters, inventory []domain.InventoryItem, catalog []domain.CatalogIngredient) []domain.NeededItem {
	dailyUnits := finance.UnitsSoldPerDay(params)
	menuCount := len(params.MenuItems)

	needs := make([]domain.NeededItem, 0)
	for _, item := range inventory {
		if item.Quantity > item.MinLevel {
			continue
		}

		libID := item.LibID
		if entry, ok := matchCatalog(item, catalog); ok {
			libID = entry.ID
		}

		usage := dailyUsage(item.Name, libID, params.MenuItems, dailyUnits, menuCount)
		if usage <= 0 {
			usage = math.Max(1, item.Quantity*fallbackDepletion)
		}

		daysLeft := item.Quantity / usage
		safeLevel := math.Max(item.MinLevel*safeLevelMinMultiple, usage*safeLevelDaysCover)
		toBuy := math.Max(1, math.Ceil(safeLevel-item.Quantity))

		needs = append(needs, domain.NeededItem{
			ID:          item.ID,
			Name:        item.Name,
			Unit:        item.Unit,
			Category:    item.Category,
			Current:     item.Quantity,
			ToBuy:       toBuy,
			UsagePerDay: usage,
			DaysLeft:    daysLeft,
			IsUrgent:    daysLeft <= urgentDaysLeft,
			LibID:       libID,
			CostPerUnit: item.CostPerUnit,
		})
	}
	return needs
}

// matchCatalog links an inventory item to the central catalog, id link first.
func matchCatalog(item domain.InventoryItem, catalog []domain.CatalogIngredient) (domain.CatalogIngredient, bool) {
	if item.LibID != "" {
		for _, c := range catalog {
			if c.ID == item.LibID {
				return c, true
			}
		}
	}
	for _, c := range catalog {
		if sameName(c.Name, item.Name) {
			return c, true
		}
	}
	return domain.CatalogIngredient{}, false
}

func dailyUsage(name, libID string, menu []domain.MenuItem, dailyUnits float64, menuCount int) float64 {
	if menuCount == 0 {
		return 0
	}
	perMenu := dailyUnits / float64(menuCount)

	var usage float64
	for _, m := range menu {
		for _, ing := range m.Ingredients {
			if (libID != "" && ing.LibID == libID) || sameName(ing.Name, name) {
				usage += perMenu * ing.Quantity
			}
		}
	}
	return usage
}

func sameName(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
