package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/toastshop/backend-go/internal/cache"
	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/finance"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

var ErrInvalidParameters = errors.New("invalid business parameters")

type SimulationService struct {
	repo  repository.ParametersRepository
	cache cache.PlanCache
}

func NewSimulationService(repo repository.ParametersRepository, cacheImpl cache.PlanCache) *SimulationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &SimulationService{repo: repo, cache: cacheImpl}
}

// Simulate runs the financial model over params.
func (s *SimulationService) Simulate(ctx context.Context, params *domain.BusinessParameters) (*domain.FinancialResult, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: parameters are required", ErrInvalidParameters)
	}
	if err := validateParameters(params); err != nil {
		return nil, err
	}

	if result, ok, err := s.cache.GetResult(ctx, params); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("simulation: cache get result failed")
	}

	result := finance.Compute(*params)

	if err := s.cache.SetResult(ctx, params, &result); err != nil {
		log.Warn().Err(err).Msg("simulation: cache set result failed")
	}
	return &result, nil
}

// Current simulates the parameters stored for shopID.
func (s *SimulationService) Current(ctx context.Context, shopID string) (*domain.FinancialResult, error) {
	params, err := s.repo.GetParameters(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.Simulate(ctx, params)
}

func (s *SimulationService) Parameters(ctx context.Context, shopID string) (*domain.BusinessParameters, error) {
	return s.repo.GetParameters(ctx, shopID)
}

func (s *SimulationService) SaveParameters(ctx context.Context, shopID string, params *domain.BusinessParameters) error {
	if params == nil {
		return fmt.Errorf("%w: parameters are required", ErrInvalidParameters)
	}
	if err := validateParameters(params); err != nil {
		return err
	}
	if err := s.repo.SaveParameters(ctx, shopID, params); err != nil {
		return fmt.Errorf("save parameters for %s: %w", shopID, err)
	}
	return nil
}

// validateParameters rejects values the model cannot give a meaningful answer
// for. Everything else, including an empty menu, is computed as-is.
func validateParameters(p *domain.BusinessParameters) error {
	if p.Traffic.OpenHours < 0 || p.Traffic.CustomersPerHour < 0 || p.Traffic.ConversionRatePercent < 0 || p.Traffic.AvgUnitsPerBill < 0 {
		return fmt.Errorf("%w: traffic values must not be negative", ErrInvalidParameters)
	}
	if p.Pricing.PromoType != "" && p.Pricing.PromoType != domain.PromoNone && p.Pricing.PromoType != domain.PromoBundle {
		return fmt.Errorf("%w: unknown promo type %q", ErrInvalidParameters, p.Pricing.PromoType)
	}
	for _, a := range p.EquipmentAssets {
		if a.Quantity < 0 {
			return fmt.Errorf("%w: equipment %q has negative quantity", ErrInvalidParameters, a.Name)
		}
	}
	return nil
}
