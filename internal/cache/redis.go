package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const analysisKeyPrefix = "propdash:analysis:"

// RedisCache is a short-lived read-through cache for analysis status
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisCacheFromClient(client, ttl), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// GetAnalysis returns a cached analysis. Misses and cache errors both report
// false; errors are logged and the caller falls through to the store.
func (rc *RedisCache) GetAnalysis(ctx context.Context, key string) (*domain.Analysis, bool) {
	raw, err := rc.client.Get(ctx, analysisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analysis cache read failed")
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	a, err := DecodeAnalysis(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analysis cache entry corrupt")
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return a, true
}

// SetAnalysis stores an analysis under key for the configured TTL
func (rc *RedisCache) SetAnalysis(ctx context.Context, key string, a *domain.Analysis) {
	raw, err := EncodeAnalysis(a)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analysis cache encode failed")
		return
	}
	if err := rc.client.Set(ctx, analysisKeyPrefix+key, raw, rc.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analysis cache write failed")
	}
}

// cachedAnalysis keeps the fields domain.Analysis hides from its JSON form.
type cachedAnalysis struct {
	PlayerKey       string                     `json:"player_key"`
	PlayerName      string                     `json:"player_name"`
	StatType        domain.StatType            `json:"stat_type"`
	ConfidenceLevel float64                    `json:"confidence_level"`
	ConfidenceScale float64                    `json:"confidence_scale"`
	Reasons         [domain.ReasonCount]string `json:"reasons"`
	FinalConclusion string                     `json:"final_conclusion"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// EncodeAnalysis serializes an analysis for the cache
func EncodeAnalysis(a *domain.Analysis) ([]byte, error) {
	return json.Marshal(cachedAnalysis(*a))
}

// DecodeAnalysis restores an analysis written by EncodeAnalysis
func DecodeAnalysis(raw []byte) (*domain.Analysis, error) {
	var c cachedAnalysis
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	a := domain.Analysis(c)
	return &a, nil
}
