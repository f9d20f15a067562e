package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redisClient "github.com/go-redis/redis/v8"
)

const (
	urlKeyPrefix = "redirect:"
	hitsKey      = "redirect_hits"
	urlTTL       = 10 * time.Minute
)

// DBManager caches resolved redirects and counts their hits
type DBManager struct {
	client *redisClient.Client
}

func NewDBManager(address, password string) (*DBManager, error) {
	opt, err := redisClient.ParseURL(connectionURL(address, password))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &DBManager{client: redisClient.NewClient(opt)}, nil
}

// connectionURL accepts either a full redis:// or rediss:// url or a bare
// host:port, which gets TLS and the default user
func connectionURL(address, password string) string {
	if strings.HasPrefix(address, "redis://") || strings.HasPrefix(address, "rediss://") {
		return address
	}
	return fmt.Sprintf("rediss://default:%s@%s", password, address)
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

// GetURL returns the cached target of a slug
func (redis *DBManager) GetURL(ctx context.Context, slug string) (string, bool, error) {
	url, err := redis.client.Get(ctx, urlKeyPrefix+slug).Result()
	if err != nil {
		if err == redisClient.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return url, true, nil
}

func (redis *DBManager) SetURL(ctx context.Context, slug, url string) error {
	return redis.client.Set(ctx, urlKeyPrefix+slug, url, urlTTL).Err()
}

func (redis *DBManager) Invalidate(ctx context.Context, slug string) error {
	return redis.client.Del(ctx, urlKeyPrefix+slug).Err()
}

func (redis *DBManager) IncrementHits(ctx context.Context, slug string) error {
	err := redis.client.HIncrBy(ctx, hitsKey, slug, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment hits for slug %s: %v", slug, err)
	}
	return nil
}

// Hits retrieves the visit count of every slug
func (redis *DBManager) Hits(ctx context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	raw, err := redis.client.HGetAll(ctx, hitsKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			return result, nil
		}
		return nil, err
	}
	for slug, count := range raw {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			continue // skip invalid counts
		}
		result[slug] = n
	}
	return result, nil
}
