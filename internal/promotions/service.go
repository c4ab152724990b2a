package promotions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/enums"
	pkgerrors "github.com/kaiwenhsu/posify-backend/pkg/errors"
	"github.com/kaiwenhsu/posify-backend/pkg/pagination"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Service defines promotion management operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*models.Promotion, error)
	Archive(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error)
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo  Repository
	cache *ActiveCache
}

// NewService wires promotion dependencies. The cache is optional.
func NewService(repo Repository, cache *ActiveCache) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "promotions repository required")
	}
	return &service{repo: repo, cache: cache}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Promotion, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion name required")
	}
	rawType := strings.TrimSpace(params.Type)
	if _, ok := enums.NormalizePromotionType(rawType); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown promotion type").
			WithDetails(map[string]any{"type": rawType})
	}

	promo := &models.Promotion{
		Name:          name,
		Type:          rawType,
		DiscountValue: params.DiscountValue,
		MinPurchase:   params.MinPurchase,
		MaxDiscount:   params.MaxDiscount,
		Status:        enums.PromotionStatusDraft,
		StartsAt:      params.StartsAt,
		EndsAt:        params.EndsAt,
	}

	if params.DiscountKind != nil {
		kind, err := enums.ParseDiscountKind(*params.DiscountKind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount kind")
		}
		promo.DiscountKind = &kind
	}
	if params.Status != nil {
		status, err := enums.ParsePromotionStatus(*params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion status")
		}
		promo.Status = status
	}
	if err := validateAmounts(params.DiscountValue, params.MinPurchase, params.MaxDiscount); err != nil {
		return nil, err
	}
	if err := validateWindow(params.StartsAt, params.EndsAt); err != nil {
		return nil, err
	}
	scope, err := parseProductScope(params.ProductIDs)
	if err != nil {
		return nil, err
	}
	promo.ProductIDs = scope

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}
	s.cache.Invalidate(ctx)
	return promo, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find promotion")
	}
	return promo, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listPromotionsParams{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParsePromotionStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion status")
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*models.Promotion, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}

	updates := map[string]any{}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion name required")
		}
		updates["name"] = name
	}
	if params.Type != nil {
		rawType := strings.TrimSpace(*params.Type)
		if _, ok := enums.NormalizePromotionType(rawType); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown promotion type").
				WithDetails(map[string]any{"type": rawType})
		}
		updates["type"] = rawType
	}
	if params.DiscountKind != nil {
		kind, err := enums.ParseDiscountKind(*params.DiscountKind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount kind")
		}
		updates["discount_kind"] = kind
	}
	if err := validateAmounts(params.DiscountValue, params.MinPurchase, params.MaxDiscount); err != nil {
		return nil, err
	}
	if params.DiscountValue != nil {
		updates["discount_value"] = *params.DiscountValue
	}
	if params.MinPurchase != nil {
		updates["min_purchase"] = *params.MinPurchase
	}
	if params.MaxDiscount != nil {
		updates["max_discount"] = *params.MaxDiscount
	}
	if params.Status != nil {
		status, err := enums.ParsePromotionStatus(*params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion status")
		}
		updates["status"] = status
	}
	if err := validateWindow(params.StartsAt, params.EndsAt); err != nil {
		return nil, err
	}
	if params.StartsAt != nil {
		updates["starts_at"] = *params.StartsAt
	}
	if params.EndsAt != nil {
		updates["ends_at"] = *params.EndsAt
	}
	if params.ProductIDs != nil {
		scope, err := parseProductScope(params.ProductIDs)
		if err != nil {
			return nil, err
		}
		updates["product_ids"] = scope
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	affected, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *service) Archive(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	affected, err := s.repo.Update(ctx, id, map[string]any{
		"status": enums.PromotionStatusArchived,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive promotion")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	s.cache.Invalidate(ctx)
	return nil
}

// ListActive serves the active set from the cache when possible. The
// cache is keyed without the instant, so cached entries are re-checked
// against their window before being returned.
func (s *service) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	if promos, ok := s.cache.Get(ctx); ok {
		return filterActiveAt(promos, at), nil
	}
	promos, err := s.repo.ListActive(ctx, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active promotions")
	}
	s.cache.Set(ctx, promos)
	return promos, nil
}

func filterActiveAt(promos []models.Promotion, at time.Time) []models.Promotion {
	live := make([]models.Promotion, 0, len(promos))
	for i := range promos {
		if promos[i].ActiveAt(at) {
			live = append(live, promos[i])
		}
	}
	return live
}

func (s *service) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.repo.ArchiveExpired(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive expired promotions")
	}
	if count > 0 {
		s.cache.Invalidate(ctx)
	}
	return count, nil
}

func validateAmounts(value *float64, minPurchase, maxDiscount *int64) error {
	if value != nil && *value < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}
	if minPurchase != nil && *minPurchase < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min purchase must not be negative")
	}
	if maxDiscount != nil && *maxDiscount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max discount must not be negative")
	}
	return nil
}

func validateWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && !endsAt.After(*startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be after starts_at")
	}
	return nil
}

func parseProductScope(ids []string) (pq.StringArray, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	scope := make(pq.StringArray, 0, len(ids))
	seen := map[string]struct{}{}
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
				WithDetails(map[string]any{"product_id": raw})
		}
		if _, ok := seen[id.String()]; ok {
			continue
		}
		seen[id.String()] = struct{}{}
		scope = append(scope, id.String())
	}
	return scope, nil
}
