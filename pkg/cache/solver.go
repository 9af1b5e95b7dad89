package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"transport/pkg/domain"
)

// SolverCache специализированный кэш для результатов решателя.
// Ключ строится из канонического хеша графа, значение - итоговая
// сводка решения в JSON.
type SolverCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedSolveResult кэшированный результат решения
type CachedSolveResult struct {
	Summary    *domain.SolveSummary `json:"summary"`
	ComputedAt time.Time            `json:"computed_at"`
}

// NewSolverCache создаёт кэш для результатов решателя
func NewSolverCache(cache Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolverCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированный результат для графа
func (sc *SolverCache) Get(ctx context.Context, graph *domain.Graph) (*CachedSolveResult, bool, error) {
	key := BuildSolveKey(GraphHash(graph))

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedSolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет сводку решения в кэш
func (sc *SolverCache) Set(ctx context.Context, graph *domain.Graph, summary *domain.SolveSummary, ttl time.Duration) error {
	if summary == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	key := BuildSolveKey(GraphHash(graph))

	result := CachedSolveResult{
		Summary:    summary,
		ComputedAt: time.Now(),
	}

	data, err := json.Marshal(&result)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, ttl)
}

// Invalidate удаляет кэш для графа
func (sc *SolverCache) Invalidate(ctx context.Context, graph *domain.Graph) error {
	pattern := fmt.Sprintf("solve:*:%s", GraphHash(graph))
	_, err := sc.cache.DeleteByPattern(ctx, pattern)
	return err
}

// InvalidateAll удаляет весь кэш результатов решателя
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solve:*")
}
