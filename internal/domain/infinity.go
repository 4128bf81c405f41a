package domain

import (
	"encoding/json"
	"math"
)

// Never is the sentinel for "never happens" (payback, break-even, infeasible cost).
func Never() float64 {
	return math.Inf(1)
}

func IsNever(v float64) bool {
	return math.IsInf(v, 1)
}

// JSON has no infinity; encode non-finite values as null and read null back as +Inf.
func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func orNever(p *float64) float64 {
	if p == nil {
		return Never()
	}
	return *p
}

func (r FinancialResult) MarshalJSON() ([]byte, error) {
	type alias FinancialResult
	return json.Marshal(struct {
		alias
		BreakEvenUnits *float64 `json:"break_even_units"`
		MinSafePrice   *float64 `json:"min_safe_price"`
		PaybackDays    *float64 `json:"payback_days"`
	}{
		alias:          alias(r),
		BreakEvenUnits: finiteOrNil(r.BreakEvenUnits),
		MinSafePrice:   finiteOrNil(r.MinSafePrice),
		PaybackDays:    finiteOrNil(r.PaybackDays),
	})
}

func (r *FinancialResult) UnmarshalJSON(data []byte) error {
	type alias FinancialResult
	aux := struct {
		*alias
		BreakEvenUnits *float64 `json:"break_even_units"`
		MinSafePrice   *float64 `json:"min_safe_price"`
		PaybackDays    *float64 `json:"payback_days"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.BreakEvenUnits = orNever(aux.BreakEvenUnits)
	r.MinSafePrice = orNever(aux.MinSafePrice)
	r.PaybackDays = orNever(aux.PaybackDays)
	return nil
}

func (b CostBreakdown) MarshalJSON() ([]byte, error) {
	type alias CostBreakdown
	return json.Marshal(struct {
		alias
		TotalCost *float64 `json:"total_cost"`
	}{
		alias:     alias(b),
		TotalCost: finiteOrNil(b.TotalCost),
	})
}

func (b *CostBreakdown) UnmarshalJSON(data []byte) error {
	type alias CostBreakdown
	aux := struct {
		*alias
		TotalCost *float64 `json:"total_cost"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.TotalCost = orNever(aux.TotalCost)
	return nil
}
