package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/expeditionrm/revenue-studio/internal/config"
	"github.com/expeditionrm/revenue-studio/internal/domain"
)

const (
	summaryKeyPrefix = "dashboard:summary"
	scanBatchSize    = 100
	defaultTTL       = time.Minute
)

// DashboardCache stores computed portfolio summaries keyed by dashboard
// filter. Implementations must tolerate concurrent use.
type DashboardCache interface {
	GetSummary(ctx context.Context, filter domain.DashboardFilter) (*domain.PortfolioSummary, bool, error)
	SetSummary(ctx context.Context, filter domain.DashboardFilter, summary *domain.PortfolioSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache builds the configured cache. A disabled config yields the
// noop implementation; an enabled one requires a reachable redis.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// NewNoopDashboardCache returns a cache that stores nothing.
func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, filter domain.DashboardFilter) (*domain.PortfolioSummary, bool, error) {
	key := buildSummaryKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.PortfolioSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode portfolio summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, filter domain.DashboardFilter, summary *domain.PortfolioSummary) error {
	key := buildSummaryKey(filter)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode portfolio summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, summaryKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (n *noopDashboardCache) GetSummary(ctx context.Context, filter domain.DashboardFilter) (*domain.PortfolioSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetSummary(ctx context.Context, filter domain.DashboardFilter, summary *domain.PortfolioSummary) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// buildSummaryKey hashes the filter into a stable cache key. Slice order
// within the filter does not matter.
func buildSummaryKey(filter domain.DashboardFilter) string {
	var parts []string
	if len(filter.Regions) > 0 {
		parts = append(parts, "regions="+joinSorted(filter.Regions))
	}
	if len(filter.Ships) > 0 {
		parts = append(parts, "ships="+joinSorted(filter.Ships))
	}
	if len(filter.Statuses) > 0 {
		parts = append(parts, "statuses="+joinSorted(filter.Statuses))
	}

	if len(parts) == 0 {
		return summaryKeyPrefix + ":default"
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", summaryKeyPrefix, hex.EncodeToString(hash[:]))
}

func joinSorted(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
