package promotions

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/enums"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPromotionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:promotions_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS promotions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  discount_kind TEXT,
  discount_value REAL,
  min_purchase INTEGER,
  max_discount INTEGER,
  status TEXT NOT NULL DEFAULT 'draft',
  starts_at DATETIME,
  ends_at DATETIME,
  product_ids TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

type testPromotionOpts struct {
	Type          string
	Status        enums.PromotionStatus
	DiscountKind  *enums.DiscountKind
	DiscountValue *float64
	MinPurchase   *int64
	MaxDiscount   *int64
	StartsAt      *time.Time
	EndsAt        *time.Time
	ProductIDs    []string
	CreatedAt     time.Time
}

func mustCreateTestPromotion(t *testing.T, db *gorm.DB, name string, opts testPromotionOpts) *models.Promotion {
	t.Helper()

	if opts.Type == "" {
		opts.Type = enums.PromotionTypePercentageDiscount.String()
	}
	if opts.Status == "" {
		opts.Status = enums.PromotionStatusActive
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = time.Now().UTC()
	}

	promo := &models.Promotion{
		ID:            uuid.New(),
		Name:          name,
		Type:          opts.Type,
		DiscountKind:  opts.DiscountKind,
		DiscountValue: opts.DiscountValue,
		MinPurchase:   opts.MinPurchase,
		MaxDiscount:   opts.MaxDiscount,
		Status:        opts.Status,
		StartsAt:      opts.StartsAt,
		EndsAt:        opts.EndsAt,
		ProductIDs:    pq.StringArray(opts.ProductIDs),
		CreatedAt:     opts.CreatedAt,
		UpdatedAt:     opts.CreatedAt,
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }
func stringPtr(v string) *string    { return &v }
func timePtr(v time.Time) *time.Time {
	return &v
}
