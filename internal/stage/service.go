package stage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "stages:list"

// RepositoryPort abstracts stage persistence.
type RepositoryPort interface {
	List(ctx context.Context) ([]Stage, error)
	Get(ctx context.Context, id int64) (*Stage, error)
}

// Service serves the stage reference list with Redis caching. The list
// changes so rarely that a plain TTL entry is sufficient.
type Service struct {
	repo  RepositoryPort
	redis *redis.Client
	ttl   time.Duration
}

// NewService builds a Service. A nil redis client disables caching.
func NewService(repo RepositoryPort, client *redis.Client, ttl time.Duration) *Service {
	return &Service{repo: repo, redis: client, ttl: ttl}
}

// List returns all stages, from cache when possible.
func (s *Service) List(ctx context.Context) ([]Stage, error) {
	if s.redis == nil {
		return s.repo.List(ctx)
	}
	payload, err := s.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var stages []Stage
		if err := json.Unmarshal(payload, &stages); err == nil {
			return stages, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	stages, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(stages); err == nil {
		_ = s.redis.Set(ctx, cacheKey, raw, s.ttl).Err()
	}
	return stages, nil
}

// Get resolves a single stage, going through the cached list first.
func (s *Service) Get(ctx context.Context, id int64) (*Stage, error) {
	stages, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range stages {
		if st.ID == id {
			return &st, nil
		}
	}
	return nil, ErrNotFound
}

// Invalidate drops the cached list.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKey).Err()
}
