package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
)

func resultKey(advocateCode, listDate string) string {
	return fmt.Sprintf("causelist:result:%s:%s", advocateCode, listDate)
}

// GetCauselist returns the cached scrape result for an advocate code and
// date, if one exists. Cache misses and decode failures both come back
// as None; the caller re-scrapes either way.
func (c *RedisClient) GetCauselist(ctx context.Context, advocateCode, listDate string) mo.Option[causelist.ScrapeResult] {
	raw, err := c.Get(ctx, resultKey(advocateCode, listDate))
	if err != nil {
		return mo.None[causelist.ScrapeResult]()
	}

	var result causelist.ScrapeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Warn().Err(err).Str("advocateCode", advocateCode).Msg("Dropping undecodable cached causelist")
		return mo.None[causelist.ScrapeResult]()
	}
	return mo.Some(result)
}

// SetCauselist caches a scrape result with the configured TTL.
func (c *RedisClient) SetCauselist(ctx context.Context, result causelist.ScrapeResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding causelist result: %w", err)
	}
	return c.Set(ctx, resultKey(result.AdvocateCode, result.Date), payload, ttl)
}

// InvalidateCauselist drops a cached result, used by the refresh path.
func (c *RedisClient) InvalidateCauselist(ctx context.Context, advocateCode, listDate string) error {
	return c.Delete(ctx, resultKey(advocateCode, listDate))
}
