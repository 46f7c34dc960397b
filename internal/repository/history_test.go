package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type stubRedis struct {
	values map[string]time.Duration
	pages  [][]string
	err    error
}

func (s *stubRedis) SetEx(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.err != nil {
		return redis.NewStatusResult("", s.err)
	}
	s.values[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	if s.err != nil {
		return redis.NewScanCmdResult(nil, 0, s.err)
	}
	next := cursor + 1
	if int(next) >= len(s.pages) {
		next = 0
	}
	return redis.NewScanCmdResult(s.pages[cursor], next, nil)
}

func TestRedisDomainHistory_Remember(t *testing.T) {
	client := &stubRedis{values: map[string]time.Duration{}}
	h := &RedisDomainHistory{client: client, ttl: time.Hour}

	if err := h.Remember(context.Background(), []string{"Alpha.example.jp", "", "bravo.example.jp"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.values) != 2 || client.values["seen:alpha.example.jp"] != time.Hour {
		t.Fatalf("unexpected keys %v", client.values)
	}
}

func TestRedisDomainHistory_All(t *testing.T) {
	client := &stubRedis{pages: [][]string{
		{"seen:alpha.example.jp", "seen:bravo.example.jp"},
		{"seen:charlie.example.jp"},
	}}
	h := &RedisDomainHistory{client: client, ttl: time.Hour}

	domains, err := h.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domains) != 3 || domains[2] != "charlie.example.jp" {
		t.Fatalf("unexpected domains %v", domains)
	}
}

func TestRedisDomainHistory_Errors(t *testing.T) {
	h := &RedisDomainHistory{client: &stubRedis{err: errors.New("connection refused")}, ttl: time.Hour}
	if err := h.Remember(context.Background(), []string{"alpha.example.jp"}); err == nil {
		t.Fatalf("expected remember error")
	}
	if _, err := h.All(context.Background()); err == nil {
		t.Fatalf("expected scan error")
	}
}

func TestNewRedisDomainHistoryDefaultTTL(t *testing.T) {
	h := NewRedisDomainHistory(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0)
	if h.ttl != 90*24*time.Hour {
		t.Fatalf("unexpected ttl %v", h.ttl)
	}
}
