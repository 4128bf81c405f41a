// Package finance turns a BusinessParameters snapshot into the shop's daily
// economics. Every function is pure; percentages are whole numbers divided by
// 100 at the point of use and money is unrounded THB.
package finance

import (
	"math"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

const (
	worstCaseTrafficFactor    = 0.7
	worstCaseConversionFactor = 0.8
	bundleBlendWeight         = 0.5
)

// DailyEquipmentDepreciation sums (purchase - resale) / lifespan * quantity.
// Assets that produce a non-finite value (zero lifespan) contribute nothing.
func DailyEquipmentDepreciation(assets []domain.EquipmentAsset) float64 {
	var total float64
	for _, a := range assets {
		v := (a.PurchasePrice - a.ResalePrice) / a.LifespanDays * a.Quantity
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}
	return total
}

// TotalInvestment is the up-front equipment spend.
func TotalInvestment(assets []domain.EquipmentAsset) float64 {
	var total float64
	for _, a := range assets {
		v := a.PurchasePrice * a.Quantity
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}
	return total
}

func TotalFixedCostPerDay(p domain.BusinessParameters) float64 {
	fc := p.FixedCosts
	return fc.Rent + fc.Transport + fc.Electricity + fc.Labor + DailyEquipmentDepreciation(p.EquipmentAssets)
}

// BaseCostPerUnit is the mean ingredient cost across menu items, 0 for an empty menu.
func BaseCostPerUnit(menu []domain.MenuItem) float64 {
	if len(menu) == 0 {
		return 0
	}
	var total float64
	for _, m := range menu {
		for _, ing := range m.Ingredients {
			total += ing.Cost
		}
	}
	return total / float64(len(menu))
}

func RealCostPerUnit(p domain.BusinessParameters) float64 {
	h := p.HiddenCosts
	return BaseCostPerUnit(p.MenuItems) * (1 + (h.WastePercent+h.PromoLossPercent+h.PaymentFeePercent)/100)
}

// AvgPricePerUnit is the mean selling price, blended 50/50 with the bundle
// unit price when a bundle promotion is configured.
func AvgPricePerUnit(p domain.BusinessParameters) float64 {
	if len(p.MenuItems) == 0 {
		return 0
	}
	var total float64
	for _, m := range p.MenuItems {
		total += m.SellingPrice
	}
	avg := total / float64(len(p.MenuItems))

	pr := p.Pricing
	if pr.PromoType == domain.PromoBundle && pr.BundleQty > 0 {
		bundleUnit := pr.BundlePrice / float64(pr.BundleQty)
		avg = avg*(1-bundleBlendWeight) + bundleUnit*bundleBlendWeight
	}
	return avg
}

// UnitsSoldPerDay applies the worst-case discounts to traffic and conversion
// before multiplying, so the two compound (0.7 * 0.8).
func UnitsSoldPerDay(p domain.BusinessParameters) float64 {
	t := p.Traffic
	customers := t.CustomersPerHour
	conversion := t.ConversionRatePercent
	if t.WorstCase {
		customers *= worstCaseTrafficFactor
		conversion *= worstCaseConversionFactor
	}
	return t.OpenHours * customers * conversion / 100 * t.AvgUnitsPerBill
}

// Compute composes the model into a FinancialResult.
func Compute(p domain.BusinessParameters) domain.FinancialResult {
	realCost := RealCostPerUnit(p)
	units := UnitsSoldPerDay(p)
	avgPrice := AvgPricePerUnit(p)
	fixed := TotalFixedCostPerDay(p)
	investment := TotalInvestment(p.EquipmentAssets)

	revenue := avgPrice * units
	totalCost := fixed + realCost*units
	profit := revenue - totalCost

	res := domain.FinancialResult{
		RealCostPerUnit: realCost,
		UnitsSoldPerDay: units,
		AvgPricePerUnit: avgPrice,
		FixedCostPerDay: fixed,
		TotalInvestment: investment,
		Revenue:         revenue,
		TotalCost:       totalCost,
		Profit:          profit,
		BreakEvenUnits:  domain.Never(),
		MinSafePrice:    realCost,
		PaybackDays:     domain.Never(),
	}

	if p.Traffic.OpenHours > 0 {
		res.ProfitPerHour = profit / p.Traffic.OpenHours
	}
	if contribution := avgPrice - realCost; contribution > 0 {
		res.BreakEvenUnits = fixed / contribution
	}
	if units > 0 {
		res.MinSafePrice = realCost + fixed/units
	}
	if profit > 0 {
		res.PaybackDays = investment / profit
	}
	return res
}
