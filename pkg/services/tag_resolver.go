package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/repositories"
)

// TagResolver resolves the single authoritative answer for a
// subject+tag: the newest normal, non-deleted answer, with equal
// timestamps breaking to the later insert. Nearly every downstream
// computation goes through ResolveLatest; it is implemented once here
// and reused, never re-derived.
type TagResolver interface {
	// ResolveLatest returns the authoritative answer, or nil when the
	// subject has never answered the tag. Absence is not an error.
	ResolveLatest(ctx context.Context, subject models.Subject, tag models.Tag) (*models.Answer, error)

	// Invalidate drops cached resolutions for the given subject+tags.
	// Called by the submission path after a batch commits.
	Invalidate(ctx context.Context, subject models.Subject, tags []models.Tag)
}

type tagResolver struct {
	answerRepo repositories.AnswerRepository
	cache      *redis.Client // nil disables caching
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewTagResolver creates a new TagResolver. The redis client is
// optional: pass nil to resolve with direct scans only. Cache failures
// never fail a resolution; they degrade to a scan.
func NewTagResolver(answerRepo repositories.AnswerRepository, cache *redis.Client, logger *zap.Logger) TagResolver {
	return &tagResolver{
		answerRepo: answerRepo,
		cache:      cache,
		cacheTTL:   15 * time.Minute,
		logger:     logger,
	}
}

var _ TagResolver = (*tagResolver)(nil)

func (r *tagResolver) ResolveLatest(ctx context.Context, subject models.Subject, tag models.Tag) (*models.Answer, error) {
	if cached := r.cacheGet(ctx, subject, tag); cached != nil {
		return cached, nil
	}

	answers, err := r.answerRepo.Scan(ctx, subject, tag, repositories.ScanOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest answer: %w", err)
	}
	if len(answers) == 0 {
		return nil, nil
	}

	// Scan returns newest first.
	latest := answers[0]
	r.cacheSet(ctx, subject, tag, latest)
	return latest, nil
}

func (r *tagResolver) Invalidate(ctx context.Context, subject models.Subject, tags []models.Tag) {
	if r.cache == nil || len(tags) == 0 {
		return
	}

	keys := make([]string, 0, len(tags))
	for _, tag := range tags {
		keys = append(keys, cacheKey(subject, tag))
	}

	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("Failed to invalidate resolver cache",
			zap.String("subject", subject.String()),
			zap.Error(err))
	}
}

func (r *tagResolver) cacheGet(ctx context.Context, subject models.Subject, tag models.Tag) *models.Answer {
	if r.cache == nil {
		return nil
	}

	data, err := r.cache.Get(ctx, cacheKey(subject, tag)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Debug("Resolver cache read failed", zap.Error(err))
		}
		return nil
	}

	var answer models.Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		r.logger.Debug("Resolver cache entry malformed", zap.Error(err))
		return nil
	}
	return &answer
}

func (r *tagResolver) cacheSet(ctx context.Context, subject models.Subject, tag models.Tag, answer *models.Answer) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(subject, tag), data, r.cacheTTL).Err(); err != nil {
		r.logger.Debug("Resolver cache write failed", zap.Error(err))
	}
}

func cacheKey(subject models.Subject, tag models.Tag) string {
	return fmt.Sprintf("latest:%s:%d:%s:%d",
		subject.OwnerUserID, subject.AnimalTypeID, subject.AnimalNumber, int(tag))
}
