package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/andresuchdata/toastshop/backend-go/internal/config"
	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

func TestPlanKeyIsStable(t *testing.T) {
	snap := map[string]any{"overrides": map[string]string{"butter": "b"}, "qty": 2}

	first, err := PlanKey("main", snap)
	if err != nil {
		t.Fatalf("plan key: %v", err)
	}
	second, _ := PlanKey("main", snap)
	if first != second {
		t.Fatalf("expected equal keys, got %s and %s", first, second)
	}
	if !strings.HasPrefix(first, "procurement:plan:main:") {
		t.Fatalf("unexpected key prefix %s", first)
	}

	other, _ := PlanKey("main", map[string]any{"overrides": map[string]string{}, "qty": 2})
	if other == first {
		t.Fatalf("different snapshots must not share a key")
	}

	defaulted, _ := PlanKey("", snap)
	if !strings.HasPrefix(defaulted, "procurement:plan:default:") {
		t.Fatalf("expected default shop segment, got %s", defaulted)
	}
}

func TestResultKeyTracksParameters(t *testing.T) {
	a := &domain.BusinessParameters{FixedCosts: domain.FixedCosts{Rent: 100}}
	b := &domain.BusinessParameters{FixedCosts: domain.FixedCosts{Rent: 101}}

	ka, err := ResultKey(a)
	if err != nil {
		t.Fatalf("result key: %v", err)
	}
	kb, _ := ResultKey(b)
	if ka == kb {
		t.Fatalf("expected different keys for different parameters")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewPlanCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new plan cache: %v", err)
	}

	ctx := context.Background()
	if err := c.SetPlan(ctx, "main", "snap", &domain.Plan{ID: "p1"}); err != nil {
		t.Fatalf("set plan: %v", err)
	}
	if _, ok, _ := c.GetPlan(ctx, "main", "snap"); ok {
		t.Fatalf("noop cache must never hit")
	}
	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{})
	if err != nil {
		t.Fatalf("build options: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" {
		t.Fatalf("expected default addr, got %s", opts.Addr)
	}

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@cache:6380/2"})
	if err != nil {
		t.Fatalf("build options from url: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Fatalf("unexpected options %+v", opts)
	}

	if _, err := buildRedisOptions(config.CacheConfig{RedisURL: "::bad"}); err == nil {
		t.Fatalf("expected invalid url error")
	}
}
