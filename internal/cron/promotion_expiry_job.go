package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/logger"
	"go.uber.org/multierr"
)

// PromotionExpiryJobParams configure the promotion expiry job.
type PromotionExpiryJobParams struct {
	Logger     *logger.Logger
	Promotions promotionExpiryService
}

type promotionExpiryService interface {
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
	ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error)
}

// NewPromotionExpiryJob builds the job that archives promotions whose
// schedule window has ended and re-primes the active cache afterwards.
func NewPromotionExpiryJob(params PromotionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Promotions == nil {
		return nil, fmt.Errorf("promotions service required")
	}
	return &promotionExpiryJob{
		logg:   params.Logger,
		promos: params.Promotions,
		now:    time.Now,
	}, nil
}

type promotionExpiryJob struct {
	logg   *logger.Logger
	promos promotionExpiryService
	now    func() time.Time
}

func (j *promotionExpiryJob) Name() string { return "promotion-expiry" }

func (j *promotionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	archived, err := j.promos.ArchiveExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("archive expired promotions: %w", err))
	}

	// warm the cache so the next quote request doesn't pay the DB read
	active, err := j.promos.ListActive(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("refresh active promotions: %w", err))
	}

	if combined := multierr.Combine(errs...); combined != nil {
		return combined
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"archived": archived,
		"active":   len(active),
	})
	j.logg.Info(logCtx, "promotion expiry sweep complete")
	return nil
}
