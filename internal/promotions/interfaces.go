package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for promotion rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, promo *models.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context, params listPromotionsParams) ([]models.Promotion, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error)
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
}
