package reasoning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/medmatch/matching-core/internal/telemetry"
)

// cacheKey derives C5's cache key, grounded on the teacher's
// CachedTranscriptResolver gene-symbol key but keyed instead on
// (patient-summary-hash, trial-id, model-version) so two requests for
// the same patient/trial/model never re-invoke the LLM.
func cacheKey(patientSummary, trialID, modelVersion string) string {
	sum := sha256.Sum256([]byte(patientSummary))
	return fmt.Sprintf("medmatch:assessment:%s:%s:%s", hex.EncodeToString(sum[:8]), trialID, modelVersion)
}

// assessmentCache is the disabled-by-default two-tier cache: an
// in-memory LRU tier (hot) backed by an optional Redis tier (warm,
// shared across processes), both carrying the same TTL (spec.md §11).
type assessmentCache struct {
	enabled bool
	memory  *lru.Cache[string, cachedEntry]
	redis   *redis.Client
	ttl     time.Duration
	logger  *telemetry.Logger
}

type cachedEntry struct {
	Result    MedicalReasoningResult
	ExpiresAt time.Time
}

func (e cachedEntry) expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// newAssessmentCache builds a disabled cache when enabled is false;
// an enabled cache always has the memory tier, and the Redis tier only
// when redisURL is non-empty.
func newAssessmentCache(enabled bool, memorySize int, ttl time.Duration, redisURL string, logger *telemetry.Logger) *assessmentCache {
	if !enabled {
		return &assessmentCache{enabled: false}
	}
	if memorySize <= 0 {
		memorySize = 1000
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	memCache, _ := lru.New[string, cachedEntry](memorySize)

	c := &assessmentCache{enabled: true, memory: memCache, ttl: ttl, logger: logger}
	if redisURL != "" {
		if opts, err := redis.ParseURL(redisURL); err == nil {
			c.redis = redis.NewClient(opts)
		} else {
			logger.WithContext(context.Background()).WithError(err).Warn("invalid reasoning cache redis url, running memory-only")
		}
	}
	return c
}

// get checks the memory tier first, then Redis, promoting a Redis hit
// back into memory for the next lookup.
func (c *assessmentCache) get(ctx context.Context, key string) (MedicalReasoningResult, bool) {
	if !c.enabled {
		return MedicalReasoningResult{}, false
	}

	if entry, ok := c.memory.Get(key); ok {
		if !entry.expired() {
			return entry.Result, true
		}
		c.memory.Remove(key)
	}

	if c.redis == nil {
		return MedicalReasoningResult{}, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return MedicalReasoningResult{}, false
	}
	var entry cachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.expired() {
		return MedicalReasoningResult{}, false
	}
	c.memory.Add(key, entry)
	return entry.Result, true
}

// set writes through both configured tiers.
func (c *assessmentCache) set(ctx context.Context, key string, result MedicalReasoningResult) {
	if !c.enabled {
		return
	}
	entry := cachedEntry{Result: result, ExpiresAt: time.Now().Add(c.ttl)}
	c.memory.Add(key, entry)

	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("reasoning cache redis write failed")
	}
}
