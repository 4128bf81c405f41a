package procurement

import (
	"math"
	"sort"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

const (
	NoteNoStock        = "no stock"
	NoteTooLate        = "won't arrive in time"
	NoteRisky          = "risky: may arrive late"
	NoteShipping       = "shipping"
	NoteHome           = "already at home stock location"
	NoteSunkCost       = "sunk cost: already stopping there"
	NoteTravel         = "travel"
	NoteTravelGuess    = "travel (estimated, distance unknown)"
	ReasonOverride     = "manual override"
	ReasonUrgent       = "urgent item"
	ReasonCombined     = "combined with an existing trip"
	ReasonCheapest     = "lowest total cost"
	ReasonOverrideLate = "manual override, may arrive late"
)

// Options holds the logistics constants. Zero values are replaced by defaults.
type Options struct {
	ShippingFee    float64
	CostPerKm      float64
	OnlineLeadDays int
	// Unknown-distance physical stores cost FallbackBase + index*FallbackStep,
	// index being the supplier's position in the supplier list.
	FallbackBase float64
	FallbackStep float64
}

func DefaultOptions() Options {
	return Options{
		ShippingFee:    30,
		CostPerKm:      5,
		OnlineLeadDays: 3,
		FallbackBase:   50,
		FallbackStep:   20,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ShippingFee <= 0 {
		o.ShippingFee = d.ShippingFee
	}
	if o.CostPerKm <= 0 {
		o.CostPerKm = d.CostPerKm
	}
	if o.OnlineLeadDays <= 0 {
		o.OnlineLeadDays = d.OnlineLeadDays
	}
	if o.FallbackBase <= 0 {
		o.FallbackBase = d.FallbackBase
	}
	if o.FallbackStep <= 0 {
		o.FallbackStep = d.FallbackStep
	}
	return o
}

// VisitedStores is the set of physical supplier ids already on this plan's route.
type VisitedStores map[string]struct{}

func (v VisitedStores) Has(id string) bool {
	_, ok := v[id]
	return ok
}

// With returns a copy of v that also contains id.
func (v VisitedStores) With(id string) VisitedStores {
	out := make(VisitedStores, len(v)+1)
	for k := range v {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

// Allocator assigns needed items to suppliers greedily, in input order.
// Results are order-sensitive: whichever item first commits a physical store
// pays its trip, later items ride along for free.
type Allocator struct {
	opts Options
}

func NewAllocator(opts Options) *Allocator {
	return &Allocator{opts: opts.withDefaults()}
}

func (a *Allocator) Options() Options {
	return a.opts
}

// SeedVisited returns the physical suppliers forced by an override for any of
// the needed items. Overrides for items not being planned are ignored.
func SeedVisited(needs []domain.NeededItem, suppliers []domain.Supplier, overrides domain.Overrides) VisitedStores {
	visited := VisitedStores{}
	for _, n := range needs {
		forced, ok := overrides[n.ID]
		if !ok {
			continue
		}
		for _, s := range suppliers {
			if s.ID == forced && s.IsPhysical() {
				visited[s.ID] = struct{}{}
			}
		}
	}
	return visited
}

// Allocate builds a plan for needs. Inputs are not mutated.
func (a *Allocator) Allocate(needs []domain.NeededItem, suppliers []domain.Supplier, catalog map[string]domain.CatalogIngredient, overrides domain.Overrides) *domain.Plan {
	plan := &domain.Plan{
		RouteGroups: make(map[string]*domain.RouteGroup),
		RouteOrder:  make([]string, 0),
		Unassigned:  make([]domain.NeededItem, 0),
	}

	visited := SeedVisited(needs, suppliers, overrides)
	for _, item := range needs {
		var (
			opt *domain.PurchaseOption
			idx int
		)
		opt, idx, visited = a.allocateItem(item, suppliers, catalog, overrides[item.ID], visited)
		if opt == nil {
			plan.Unassigned = append(plan.Unassigned, item)
			continue
		}
		a.addToRoute(plan, suppliers[idx], idx, *opt)
	}
	return plan
}

// allocateItem evaluates every supplier for one item and threads the visited
// set through: the returned set includes the winner when it is a physical store.
func (a *Allocator) allocateItem(item domain.NeededItem, suppliers []domain.Supplier, catalog map[string]domain.CatalogIngredient, forcedID string, visited VisitedStores) (*domain.PurchaseOption, int, VisitedStores) {
	options := make([]domain.CostBreakdown, len(suppliers))
	best, forced := -1, -1
	for i, s := range suppliers {
		isForced := forcedID != "" && s.ID == forcedID
		options[i] = a.Evaluate(item, s, i, catalog, isForced, visited)
		if isForced && options[i].IsFeasible {
			forced = i
		}
		// strict comparison keeps the first supplier on ties
		if options[i].IsFeasible && (best < 0 || options[i].TotalCost < options[best].TotalCost) {
			best = i
		}
	}

	winner := best
	if forced >= 0 {
		winner = forced
	}
	if winner < 0 {
		return nil, -1, visited
	}

	s := suppliers[winner]
	w := options[winner]
	pack := packSize(item, catalog)

	opt := &domain.PurchaseOption{
		Item:       item,
		SupplierID: s.ID,
		Qty:        item.ToBuy,
		Packs:      w.Packs,
		PackSize:   pack,
		UnitPrice:  w.UnitPrice,
		TotalCost:  w.TotalCost,
		Overridden: winner == forced,
		Reason:     a.reason(item, s, w, winner == forced, visited),
		Analysis: domain.Analysis{
			Winner:       w,
			Alternatives: sortByTotal(options),
		},
	}

	if s.IsPhysical() && !visited.Has(s.ID) {
		visited = visited.With(s.ID)
	}
	return opt, winner, visited
}

// Evaluate prices one item at one supplier. Infeasible options carry a +Inf
// total and IsFeasible=false; a forced supplier that is too slow stays
// feasible and is flagged as risky in the note.
func (a *Allocator) Evaluate(item domain.NeededItem, s domain.Supplier, index int, catalog map[string]domain.CatalogIngredient, forced bool, visited VisitedStores) domain.CostBreakdown {
	lead := s.LeadTime(a.opts.OnlineLeadDays)
	b := domain.CostBreakdown{
		SupplierID:   s.ID,
		SupplierName: s.Name,
		TotalCost:    domain.Never(),
		LeadTimeDays: lead,
		DaysLeft:     item.DaysLeft,
	}

	product, ok := s.Product(item.LibID)
	if _, linked := catalog[item.LibID]; !ok || !linked {
		b.Note = NoteNoStock
		return b
	}

	b.Packs = int(math.Ceil(item.ToBuy / packSize(item, catalog)))
	b.UnitPrice = product.Price
	b.ProductCost = product.Price * float64(b.Packs)

	late := float64(lead) > item.DaysLeft
	if late && !forced {
		b.Note = NoteTooLate
		return b
	}

	logistics, note := a.logistics(s, index, visited)
	if late {
		note = NoteRisky + "; " + note
	}

	b.LogisticsCost = logistics
	b.Note = note
	b.IsFeasible = true
	b.TotalCost = b.ProductCost + logistics
	return b
}

func (a *Allocator) logistics(s domain.Supplier, index int, visited VisitedStores) (float64, string) {
	switch {
	case !s.IsPhysical():
		return a.opts.ShippingFee, NoteShipping
	case s.IsHome:
		return 0, NoteHome
	case visited.Has(s.ID):
		return 0, NoteSunkCost
	}
	return a.TripCost(s, index), travelNote(s)
}

// TripCost is what reaching s costs when nothing else is bought there.
func (a *Allocator) TripCost(s domain.Supplier, index int) float64 {
	switch {
	case !s.IsPhysical():
		return a.opts.ShippingFee
	case s.IsHome:
		return 0
	case s.DistanceKm != nil:
		return *s.DistanceKm * a.opts.CostPerKm
	}
	return a.opts.FallbackBase + float64(index)*a.opts.FallbackStep
}

func travelNote(s domain.Supplier) string {
	if s.DistanceKm != nil {
		return NoteTravel
	}
	return NoteTravelGuess
}

func (a *Allocator) reason(item domain.NeededItem, s domain.Supplier, w domain.CostBreakdown, overridden bool, visited VisitedStores) string {
	switch {
	case overridden && float64(w.LeadTimeDays) > item.DaysLeft:
		return ReasonOverrideLate
	case overridden:
		return ReasonOverride
	case item.IsUrgent:
		return ReasonUrgent
	case s.IsPhysical() && !s.IsHome && visited.Has(s.ID):
		return ReasonCombined
	}
	return ReasonCheapest
}

func (a *Allocator) addToRoute(plan *domain.Plan, s domain.Supplier, index int, opt domain.PurchaseOption) {
	group, ok := plan.RouteGroups[s.ID]
	if !ok {
		group = &domain.RouteGroup{
			Supplier:      s,
			Items:         make([]domain.PurchaseOption, 0, 1),
			LogisticsCost: a.TripCost(s, index),
		}
		plan.RouteGroups[s.ID] = group
		plan.RouteOrder = append(plan.RouteOrder, s.ID)
	}
	group.Items = append(group.Items, opt)
	group.TotalCost += opt.Analysis.Winner.ProductCost
}

func packSize(item domain.NeededItem, catalog map[string]domain.CatalogIngredient) float64 {
	if c, ok := catalog[item.LibID]; ok {
		return c.PackSize()
	}
	return 1
}

func sortByTotal(options []domain.CostBreakdown) []domain.CostBreakdown {
	out := make([]domain.CostBreakdown, len(options))
	copy(out, options)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCost < out[j].TotalCost
	})
	return out
}

// CatalogIndex keys catalog entries by id.
func CatalogIndex(catalog []domain.CatalogIngredient) map[string]domain.CatalogIngredient {
	idx := make(map[string]domain.CatalogIngredient, len(catalog))
	for _, c := range catalog {
		idx[c.ID] = c
	}
	return idx
}
