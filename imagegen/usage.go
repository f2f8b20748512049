/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package imagegen

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Costs is the price in dollars of one image per paid provider. Providers
// not listed here are free and are not tracked.
var Costs = map[string]float64{
	"gemini":    0.010,
	"together":  0.008,
	"fal":       0.055,
	"replicate": 0.0023,
	"openai":    0.040,
}

// Usage counts successful generations per provider.
type Usage interface {
	Track(ctx context.Context, provider string) error
	Counts(ctx context.Context) (map[string]int64, error)
}

type ProviderStats struct {
	Provider   string `json:"provider"`
	Images     int64  `json:"images"`
	Cost       string `json:"cost"`
	Percentage string `json:"percentage"`
}

type Stats struct {
	TotalImages int64           `json:"totalImages"`
	TotalCost   string          `json:"totalCost"`
	Breakdown   []ProviderStats `json:"breakdown"`
}

// Summarize prices counts using Costs.
func Summarize(counts map[string]int64) Stats {
	providers := slices.Sorted(maps.Keys(Costs))

	var total int64
	var cost float64

	for _, p := range providers {
		total += counts[p]
		cost += float64(counts[p]) * Costs[p]
	}

	stats := Stats{
		TotalImages: total,
		TotalCost:   strconv.FormatFloat(cost, 'f', 4, 64),
		Breakdown:   make([]ProviderStats, 0, len(providers)),
	}

	for _, p := range providers {
		percentage := 0.0
		if total > 0 {
			percentage = float64(counts[p]) / float64(total) * 100
		}

		stats.Breakdown = append(stats.Breakdown, ProviderStats{
			Provider:   p,
			Images:     counts[p],
			Cost:       strconv.FormatFloat(float64(counts[p])*Costs[p], 'f', 4, 64),
			Percentage: strconv.FormatFloat(percentage, 'f', 1, 64),
		})
	}

	return stats
}

// MemoryUsage keeps counts for the life of the process.
type MemoryUsage struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryUsage() *MemoryUsage {
	return &MemoryUsage{counts: make(map[string]int64)}
}

func (m *MemoryUsage) Track(_ context.Context, provider string) error {
	if _, ok := Costs[provider]; !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[provider]++

	return nil
}

func (m *MemoryUsage) Counts(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.counts), nil
}

const usageKey = "imprompt:usage"

// RedisUsage keeps counts in a Redis hash so they survive restarts and are
// shared between instances.
type RedisUsage struct {
	client *redis.Client
}

// NewRedisUsage connects to Redis and verifies the connection.
func NewRedisUsage(ctx context.Context, addr, password string, db int) (*RedisUsage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()

		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}

	return &RedisUsage{client: client}, nil
}

func (r *RedisUsage) Track(ctx context.Context, provider string) error {
	if _, ok := Costs[provider]; !ok {
		return nil
	}

	return r.client.HIncrBy(ctx, usageKey, provider, 1).Err()
}

func (r *RedisUsage) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, usageKey).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(raw))
	for provider, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("usage for %s: %w", provider, err)
		}

		counts[provider] = n
	}

	return counts, nil
}

// Reset clears every counter.
func (r *RedisUsage) Reset(ctx context.Context) error {
	return r.client.Del(ctx, usageKey).Err()
}

func (r *RedisUsage) Close() error {
	return r.client.Close()
}
