package verdictstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"callguard/internal/pkg/config"
	"callguard/internal/pkg/logger"
	"callguard/internal/pkg/models"
)

const (
	verdictKeyPrefix = "callguard:verdict:"
	scoreKeyPrefix   = "callguard:score:"
)

// Persists final verdicts by call ID and caches score results by transcript
// signature, with Redis as the backing store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Creates a Store and verifies the Redis connection.
func NewRedisStore(config *config.Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.RedisHost, config.RedisPort),
		Password: config.RedisPassword, // "" if no auth
		DB:       config.RedisDB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Error("Failed to connect to Redis", zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Connected to Redis successfully",
		zap.String("host", config.RedisHost),
		zap.String("port", config.RedisPort),
	)

	return &Store{
		client: rdb,
		ttl:    time.Duration(config.VerdictTTL) * time.Hour,
	}, nil
}

// Stores the final verdict for a call.
func (s *Store) SaveVerdict(ctx context.Context, callID string, verdict models.FinalVerdict) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	if err := s.client.Set(ctx, verdictKeyPrefix+callID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}
	return nil
}

// Fetches a previously stored verdict; the bool reports whether it existed.
func (s *Store) Verdict(ctx context.Context, callID string) (models.FinalVerdict, bool, error) {
	payload, err := s.client.Get(ctx, verdictKeyPrefix+callID).Bytes()
	if err == redis.Nil {
		return models.FinalVerdict{}, false, nil
	}
	if err != nil {
		return models.FinalVerdict{}, false, fmt.Errorf("failed to fetch verdict: %w", err)
	}

	var verdict models.FinalVerdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		return models.FinalVerdict{}, false, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return verdict, true, nil
}

// Looks up a cached score result for a transcript. Errors degrade to a
// cache miss so analysis is never blocked by Redis trouble.
func (s *Store) CachedScore(ctx context.Context, transcript string) (models.ScoreResult, bool) {
	payload, err := s.client.Get(ctx, scoreKeyPrefix+Signature(transcript)).Bytes()
	if err == redis.Nil {
		return models.ScoreResult{}, false
	}
	if err != nil {
		logger.Log.Error("Redis score lookup failed", zap.Error(err))
		return models.ScoreResult{}, false
	}

	var result models.ScoreResult
	if err := json.Unmarshal(payload, &result); err != nil {
		logger.Log.Error("Failed to unmarshal cached score", zap.Error(err))
		return models.ScoreResult{}, false
	}
	return result, true
}

// Caches a score result keyed by the transcript signature. Scoring is
// deterministic for identical input, which is what makes this safe.
func (s *Store) CacheScore(ctx context.Context, transcript string, result models.ScoreResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		logger.Log.Error("Failed to marshal score result", zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, scoreKeyPrefix+Signature(transcript), payload, s.ttl).Err(); err != nil {
		logger.Log.Error("Failed to cache score result", zap.Error(err))
	}
}

// Creates a SHA-256 signature of the transcript.
func Signature(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
