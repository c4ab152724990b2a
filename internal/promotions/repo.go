package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/enums"
	"github.com/kaiwenhsu/posify-backend/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a promotions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type listPromotionsParams struct {
	Status *enums.PromotionStatus
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, promo *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) List(ctx context.Context, params listPromotionsParams) ([]models.Promotion, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var promos []models.Promotion
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&promos).Error; err != nil {
		return nil, nil, err
	}

	if len(promos) > normalized {
		next := promos[normalized]
		promos = promos[:normalized]
		return promos, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return promos, nil, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListActive returns promotions live at the given instant, oldest first so
// tie-breaks between equal discounts stay stable.
func (r *repository) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.PromotionStatusActive).
		Where("(starts_at IS NULL OR starts_at <= ?)", at).
		Where("(ends_at IS NULL OR ends_at > ?)", at).
		Order("created_at ASC, id ASC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *repository) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("status = ?", enums.PromotionStatusActive).
		Where("ends_at IS NOT NULL AND ends_at <= ?", now).
		Updates(map[string]any{
			"status":     enums.PromotionStatusArchived,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
