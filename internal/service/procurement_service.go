package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/cache"
	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/procurement"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ProcurementService struct {
	store    repository.Store
	cache    cache.PlanCache
	notifier domain.Notifier
	opts     procurement.Options
	now      func() time.Time
}

func NewProcurementService(store repository.Store, cacheImpl cache.PlanCache, notifier domain.Notifier, opts procurement.Options) *ProcurementService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	if notifier == nil {
		notifier = defaultNotifier()
	}
	return &ProcurementService{
		store:    store,
		cache:    cacheImpl,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// Snapshot loads everything a planning pass reads, concurrently. Missing
// parameters are not an error: need detection then falls back to the
// default usage estimate for every item.
func (s *ProcurementService) Snapshot(ctx context.Context, shopID string) (*procurement.Snapshot, error) {
	var snap procurement.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		params, err := s.store.GetParameters(gctx, shopID)
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Str("shop_id", shopID).Msg("procurement: no business parameters stored, usage will be estimated")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load parameters: %w", err)
		}
		snap.Params = *params
		return nil
	})
	g.Go(func() error {
		items, err := s.store.ListInventory(gctx)
		if err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
		snap.Inventory = items
		return nil
	})
	g.Go(func() error {
		suppliers, err := s.store.ListSuppliers(gctx)
		if err != nil {
			return fmt.Errorf("load suppliers: %w", err)
		}
		snap.Suppliers = suppliers
		return nil
	})
	g.Go(func() error {
		catalog, err := s.store.ListCatalog(gctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		snap.Catalog = catalog
		return nil
	})
	g.Go(func() error {
		overrides, err := s.store.ListOverrides(gctx)
		if err != nil {
			return fmt.Errorf("load overrides: %w", err)
		}
		snap.Overrides = overrides
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if snap.Overrides == nil {
		snap.Overrides = domain.Overrides{}
	}
	return &snap, nil
}

func (s *ProcurementService) Needs(ctx context.Context, shopID string) ([]domain.NeededItem, error) {
	snap, err := s.Snapshot(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return procurement.DetectNeeds(snap.Params, snap.Inventory, snap.Catalog), nil
}

// Plan computes the purchase plan for shopID. Request overrides take
// precedence over stored ones for the same item.
func (s *ProcurementService) Plan(ctx context.Context, shopID string, overrides domain.Overrides) (*domain.Plan, error) {
	plan, _, err := s.PlanWithSnapshot(ctx, shopID, overrides)
	return plan, err
}

// PlanWithSnapshot is Plan that also returns the snapshot the plan was
// computed from.
func (s *ProcurementService) PlanWithSnapshot(ctx context.Context, shopID string, overrides domain.Overrides) (*domain.Plan, *procurement.Snapshot, error) {
	snap, err := s.Snapshot(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}
	snap.Overrides = mergeOverrides(snap.Overrides, overrides)
	s.warnUnknownOverrides(ctx, snap)

	plan, ok, err := s.cache.GetPlan(ctx, shopID, snap)
	if err != nil {
		log.Warn().Err(err).Msg("procurement: cache get plan failed")
	}
	if !ok {
		plan = procurement.Plan(*snap, s.opts)
		plan.ID = uuid.NewString()
		plan.GeneratedAt = s.now().UTC()

		if err := s.cache.SetPlan(ctx, shopID, snap, plan); err != nil {
			log.Warn().Err(err).Msg("procurement: cache set plan failed")
		}
	}

	log.Info().
		Str("shop_id", shopID).
		Str("plan_id", plan.ID).
		Int("routes", len(plan.RouteOrder)).
		Int("unassigned", len(plan.Unassigned)).
		Float64("total", plan.Total()).
		Msg("procurement plan ready")

	s.notifyPlan(ctx, plan)
	return plan, snap, nil
}

func (s *ProcurementService) SetOverride(ctx context.Context, itemID, supplierID string) error {
	if itemID == "" || supplierID == "" {
		return fmt.Errorf("item id and supplier id are required")
	}
	if err := s.store.SetOverride(ctx, itemID, supplierID); err != nil {
		return fmt.Errorf("set override for %s: %w", itemID, err)
	}
	return nil
}

func (s *ProcurementService) ClearOverride(ctx context.Context, itemID string) error {
	if err := s.store.ClearOverride(ctx, itemID); err != nil {
		return fmt.Errorf("clear override for %s: %w", itemID, err)
	}
	return nil
}

func (s *ProcurementService) Options() procurement.Options {
	return procurement.NewAllocator(s.opts).Options()
}

func mergeOverrides(stored, request domain.Overrides) domain.Overrides {
	out := make(domain.Overrides, len(stored)+len(request))
	for k, v := range stored {
		out[k] = v
	}
	for k, v := range request {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func (s *ProcurementService) warnUnknownOverrides(ctx context.Context, snap *procurement.Snapshot) {
	known := make(map[string]struct{}, len(snap.Suppliers))
	for _, sup := range snap.Suppliers {
		known[sup.ID] = struct{}{}
	}
	for itemID, supplierID := range snap.Overrides {
		if _, ok := known[supplierID]; !ok {
			s.notifier.Notify(ctx, fmt.Sprintf("override for %s names unknown supplier %s and is ignored", itemID, supplierID), domain.NoticeWarning)
		}
	}
}

func (s *ProcurementService) notifyPlan(ctx context.Context, plan *domain.Plan) {
	for _, g := range plan.Routes() {
		for _, opt := range g.Items {
			if opt.Overridden && opt.Reason == procurement.ReasonOverrideLate {
				s.notifier.Notify(ctx, fmt.Sprintf("%s from %s may arrive late (lead %d days, %.1f days left)",
					opt.Item.Name, g.Supplier.Name, opt.Analysis.Winner.LeadTimeDays, opt.Item.DaysLeft), domain.NoticeWarning)
			}
		}
	}
	for _, n := range plan.Unassigned {
		s.notifier.Notify(ctx, fmt.Sprintf("no supplier can deliver %s in time", n.Name), domain.NoticeWarning)
	}
}
