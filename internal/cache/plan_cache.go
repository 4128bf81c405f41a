package cache

import (
	"context"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/config"
	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	planKeyPrefix   = "procurement:plan"
	resultKeyPrefix = "simulation:result"
)

// PlanCache memoizes planning and simulation outputs keyed by the inputs
// they were computed from.
type PlanCache interface {
	GetPlan(ctx context.Context, shopID string, snapshot any) (*domain.Plan, bool, error)
	SetPlan(ctx context.Context, shopID string, snapshot any, plan *domain.Plan) error
	GetResult(ctx context.Context, params *domain.BusinessParameters) (*domain.FinancialResult, bool, error)
	SetResult(ctx context.Context, params *domain.BusinessParameters, result *domain.FinancialResult) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPlanCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) GetPlan(ctx context.Context, shopID string, snapshot any) (*domain.Plan, bool, error) {
	key, err := PlanKey(shopID, snapshot)
	if err != nil {
		return nil, false, err
	}

	var plan domain.Plan
	ok, err := getJSON(ctx, c.client, key, &plan)
	if err != nil || !ok {
		return nil, false, err
	}
	return &plan, true, nil
}

func (c *redisPlanCache) SetPlan(ctx context.Context, shopID string, snapshot any, plan *domain.Plan) error {
	key, err := PlanKey(shopID, snapshot)
	if err != nil {
		return err
	}
	return setJSON(ctx, c.client, key, plan, c.ttl)
}

func (c *redisPlanCache) GetResult(ctx context.Context, params *domain.BusinessParameters) (*domain.FinancialResult, bool, error) {
	key, err := ResultKey(params)
	if err != nil {
		return nil, false, err
	}

	var result domain.FinancialResult
	ok, err := getJSON(ctx, c.client, key, &result)
	if err != nil || !ok {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *redisPlanCache) SetResult(ctx context.Context, params *domain.BusinessParameters, result *domain.FinancialResult) error {
	key, err := ResultKey(params)
	if err != nil {
		return err
	}
	return setJSON(ctx, c.client, key, result, c.ttl)
}

func (c *redisPlanCache) InvalidateAll(ctx context.Context) error {
	if err := deleteKeysWithPrefix(ctx, c.client, planKeyPrefix, scanBatchSize); err != nil {
		return err
	}
	return deleteKeysWithPrefix(ctx, c.client, resultKeyPrefix, scanBatchSize)
}

func (n *noopPlanCache) GetPlan(ctx context.Context, shopID string, snapshot any) (*domain.Plan, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetPlan(ctx context.Context, shopID string, snapshot any, plan *domain.Plan) error {
	return nil
}

func (n *noopPlanCache) GetResult(ctx context.Context, params *domain.BusinessParameters) (*domain.FinancialResult, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetResult(ctx context.Context, params *domain.BusinessParameters, result *domain.FinancialResult) error {
	return nil
}

func (n *noopPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// PlanKey is the cache key of the plan computed for shopID from snapshot.
func PlanKey(shopID string, snapshot any) (string, error) {
	if shopID == "" {
		shopID = "default"
	}
	return hashKey(planKeyPrefix+":"+shopID, snapshot)
}

func ResultKey(params *domain.BusinessParameters) (string, error) {
	return hashKey(resultKeyPrefix, params)
}
