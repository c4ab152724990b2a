package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/logger"
)

type fakePromotionExpiry struct {
	archived     int64
	archiveErr   error
	active       []models.Promotion
	listErr      error
	archiveCalls int
	listCalls    int
}

func (f *fakePromotionExpiry) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	f.archiveCalls++
	return f.archived, f.archiveErr
}

func (f *fakePromotionExpiry) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	f.listCalls++
	return f.active, f.listErr
}

func newExpiryJob(t *testing.T, svc promotionExpiryService) Job {
	t.Helper()
	job, err := NewPromotionExpiryJob(PromotionExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Promotions: svc,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job
}

func TestPromotionExpiryJobArchivesAndWarmsCache(t *testing.T) {
	fake := &fakePromotionExpiry{archived: 3, active: []models.Promotion{{Name: "live"}}}
	job := newExpiryJob(t, fake)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if fake.archiveCalls != 1 || fake.listCalls != 1 {
		t.Fatalf("expected both steps once, got %d/%d", fake.archiveCalls, fake.listCalls)
	}
}

func TestPromotionExpiryJobCombinesFailures(t *testing.T) {
	fake := &fakePromotionExpiry{
		archiveErr: errors.New("archive down"),
		listErr:    errors.New("list down"),
	}
	job := newExpiryJob(t, fake)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatalf("expected combined error")
	}
	// the refresh still runs after the archive step fails
	if fake.listCalls != 1 {
		t.Fatalf("list step must still run, got %d", fake.listCalls)
	}
}

func TestPromotionExpiryJobRequiresDeps(t *testing.T) {
	if _, err := NewPromotionExpiryJob(PromotionExpiryJobParams{}); err == nil {
		t.Fatalf("expected dependency error")
	}
}
