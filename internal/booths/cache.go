package booths

import (
	"context"
	"errors"
	"time"

	"github.com/EmpoweredVote/booth-results/internal/cache"
	"github.com/EmpoweredVote/booth-results/internal/metrics"
	"go.uber.org/zap"
)

const reportKeyPrefix = "booth-report:"

// ReportNames lists every report served through the cache. Tools that write
// booth tables directly clear these keys with Invalidate.
var ReportNames = []string{
	"get-ac-names",
	"get-pc-names",
	"get-pc-total",
	"get-ac-total",
	"get-booth-total",
	"total-votes",
	"total-votes-by-booth-type",
	"get-all-pcs-data",
	"votes-by-fav-ubt-other-percentage",
	"total-polled-votes",
	"total-fav-votes",
	"total-ubt-votes",
}

// ReportCache keeps rendered report bodies in a KV store until the TTL lapses
// or a booth write invalidates them. Cache failures never fail a request.
type ReportCache struct {
	kv      cache.KVStore
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger
	reports []string
}

// NewReportCache returns a cache; ttl <= 0 disables storing. m and log may be nil.
func NewReportCache(kv cache.KVStore, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) *ReportCache {
	if kv == nil {
		kv = cache.NopKVStore{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportCache{
		kv:      kv,
		ttl:     ttl,
		metrics: m,
		log:     log,
		reports: append([]string(nil), ReportNames...),
	}
}

func (c *ReportCache) track(report string) {
	for _, r := range c.reports {
		if r == report {
			return
		}
	}
	c.reports = append(c.reports, report)
}

func (c *ReportCache) lookup(ctx context.Context, report string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	val, err := c.kv.Get(ctx, reportKeyPrefix+report)
	switch {
	case err == nil:
		c.count(report, "hit")
		return []byte(val), true
	case errors.Is(err, cache.ErrCacheMiss):
		c.count(report, "miss")
	default:
		c.count(report, "error")
		c.log.Warn("report cache read failed", zap.String("report", report), zap.Error(err))
	}
	return nil, false
}

func (c *ReportCache) store(ctx context.Context, report string, body []byte) {
	if c.ttl <= 0 {
		return
	}
	if err := c.kv.Set(ctx, reportKeyPrefix+report, string(body), c.ttl); err != nil {
		c.log.Warn("report cache write failed", zap.String("report", report), zap.Error(err))
	}
}

// Invalidate drops every known report.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(c.reports))
	for _, r := range c.reports {
		keys = append(keys, reportKeyPrefix+r)
	}
	if err := c.kv.Del(ctx, keys...); err != nil {
		c.log.Warn("report cache invalidation failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *ReportCache) count(report, result string) {
	if c.metrics != nil {
		c.metrics.CacheResult(report, result)
	}
}
