package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const domainHistoryPrefix = "seen:"

// DomainHistory remembers domains delivered by earlier runs so later runs can
// skip them.
type DomainHistory interface {
	Remember(ctx context.Context, domains []string) error
	All(ctx context.Context) ([]string, error)
}

// redisClient is the subset of *redis.Client the history depends on.
type redisClient interface {
	SetEx(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

var _ redisClient = (*redis.Client)(nil)

// RedisDomainHistory stores one key per domain with a TTL.
type RedisDomainHistory struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisDomainHistory wires a Redis backed history. A non-positive ttl
// keeps keys for 90 days.
func NewRedisDomainHistory(client *redis.Client, ttl time.Duration) *RedisDomainHistory {
	if ttl <= 0 {
		ttl = 90 * 24 * time.Hour
	}
	return &RedisDomainHistory{client: client, ttl: ttl}
}

func historyKey(domain string) string {
	return domainHistoryPrefix + strings.ToLower(domain)
}

// Remember marks every domain as delivered, refreshing its expiry.
func (h *RedisDomainHistory) Remember(ctx context.Context, domains []string) error {
	for _, domain := range domains {
		if domain == "" {
			continue
		}
		if err := h.client.SetEx(ctx, historyKey(domain), "1", h.ttl).Err(); err != nil {
			return fmt.Errorf("remember domain %q: %w", domain, err)
		}
	}
	return nil
}

// All lists every remembered domain.
func (h *RedisDomainHistory) All(ctx context.Context) ([]string, error) {
	var (
		domains []string
		cursor  uint64
	)
	for {
		keys, next, err := h.client.Scan(ctx, cursor, domainHistoryPrefix+"*", 500).Result()
		if err != nil {
			return nil, fmt.Errorf("scan domain history: %w", err)
		}
		for _, key := range keys {
			domains = append(domains, strings.TrimPrefix(key, domainHistoryPrefix))
		}
		if next == 0 {
			return domains, nil
		}
		cursor = next
	}
}

var _ DomainHistory = (*RedisDomainHistory)(nil)
