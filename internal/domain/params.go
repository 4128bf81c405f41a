package domain

// FixedCosts holds the shop's fixed running costs in THB per day.
type FixedCosts struct {
	Rent        float64 `json:"rent"`
	Transport   float64 `json:"transport"`
	Electricity float64 `json:"electricity"`
	Labor       float64 `json:"labor"`
}

// EquipmentAsset is a depreciating piece of equipment (oven, toaster, cart...).
type EquipmentAsset struct {
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchase_price"`
	ResalePrice   float64 `json:"resale_price"`
	LifespanDays  float64 `json:"lifespan_days"`
	Quantity      float64 `json:"quantity"`
}

// Traffic describes expected foot traffic. Percentages are whole numbers (12 means 12%).
type Traffic struct {
	OpenHours             float64 `json:"open_hours"`
	CustomersPerHour      float64 `json:"customers_per_hour"`
	ConversionRatePercent float64 `json:"conversion_rate_percent"`
	AvgUnitsPerBill       float64 `json:"avg_units_per_bill"`
	WorstCase             bool    `json:"worst_case"`
}

// MenuIngredient is one recipe line of a menu item.
type MenuIngredient struct {
	Name     string  `json:"name"`
	LibID    string  `json:"lib_id,omitempty"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

type MenuItem struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	SellingPrice float64          `json:"selling_price"`
	Ingredients  []MenuIngredient `json:"ingredients"`
}

// HiddenCosts are applied multiplicatively on top of ingredient cost, in whole percent.
type HiddenCosts struct {
	WastePercent      float64 `json:"waste_percent"`
	PromoLossPercent  float64 `json:"promo_loss_percent"`
	PaymentFeePercent float64 `json:"payment_fee_percent"`
}

type PromoType string

const (
	PromoNone   PromoType = "none"
	PromoBundle PromoType = "bundle"
)

type Pricing struct {
	PromoType   PromoType `json:"promo_type"`
	BundleQty   int       `json:"bundle_qty"`
	BundlePrice float64   `json:"bundle_price"`
}

// BusinessParameters is the read-only snapshot the financial model runs on.
type BusinessParameters struct {
	FixedCosts      FixedCosts       `json:"fixed_costs"`
	EquipmentAssets []EquipmentAsset `json:"equipment_assets"`
	Traffic         Traffic          `json:"traffic"`
	MenuItems       []MenuItem       `json:"menu_items"`
	HiddenCosts     HiddenCosts      `json:"hidden_costs"`
	Pricing         Pricing          `json:"pricing"`
}

// FinancialResult is derived from BusinessParameters and never persisted.
// BreakEvenUnits and PaybackDays are +Inf when the shop never breaks even.
type FinancialResult struct {
	RealCostPerUnit float64 `json:"real_cost_per_unit"`
	UnitsSoldPerDay float64 `json:"units_sold_per_day"`
	AvgPricePerUnit float64 `json:"avg_price_per_unit"`
	FixedCostPerDay float64 `json:"fixed_cost_per_day"`
	TotalInvestment float64 `json:"total_investment"`
	Revenue         float64 `json:"revenue"`
	TotalCost       float64 `json:"total_cost"`
	Profit          float64 `json:"profit"`
	ProfitPerHour   float64 `json:"profit_per_hour"`
	BreakEvenUnits  float64 `json:"break_even_units"`
	MinSafePrice    float64 `json:"min_safe_price"`
	PaybackDays     float64 `json:"payback_days"`
}

// NeverRecoups reports whether the investment is never paid back.
func (r FinancialResult) NeverRecoups() bool {
	return IsNever(r.PaybackDays)
}
