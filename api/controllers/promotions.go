package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kaiwenhsu/posify-backend/api/responses"
	"github.com/kaiwenhsu/posify-backend/api/validators"
	"github.com/kaiwenhsu/posify-backend/internal/promotions"
	pkgerrors "github.com/kaiwenhsu/posify-backend/pkg/errors"
	"github.com/kaiwenhsu/posify-backend/pkg/logger"
)

type createPromotionRequest struct {
	Name          string     `json:"name" validate:"required"`
	Type          string     `json:"type" validate:"required"`
	DiscountKind  *string    `json:"discount_kind,omitempty" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *float64   `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	MinPurchase   *int64     `json:"min_purchase,omitempty" validate:"omitempty,gte=0"`
	MaxDiscount   *int64     `json:"max_discount,omitempty" validate:"omitempty,gte=0"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	ProductIDs    []string   `json:"product_ids,omitempty" validate:"omitempty,dive,uuid"`
}

type updatePromotionRequest struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	Type          *string    `json:"type,omitempty" validate:"omitempty,min=1"`
	DiscountKind  *string    `json:"discount_kind,omitempty" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *float64   `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	MinPurchase   *int64     `json:"min_purchase,omitempty" validate:"omitempty,gte=0"`
	MaxDiscount   *int64     `json:"max_discount,omitempty" validate:"omitempty,gte=0"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	ProductIDs    []string   `json:"product_ids,omitempty" validate:"omitempty,dive,uuid"`
}

// CreatePromotion stores a new promotion rule.
func CreatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createPromotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.Create(r.Context(), promotions.CreateParams{
			Name:          body.Name,
			Type:          body.Type,
			DiscountKind:  body.DiscountKind,
			DiscountValue: body.DiscountValue,
			MinPurchase:   body.MinPurchase,
			MaxDiscount:   body.MaxDiscount,
			Status:        body.Status,
			StartsAt:      body.StartsAt,
			EndsAt:        body.EndsAt,
			ProductIDs:    body.ProductIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

// GetPromotion returns a single promotion by id.
func GetPromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := promotionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promo, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

// ListPromotions returns promotions with cursor pagination.
func ListPromotions(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := promotions.ListParams{}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}
		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			params.Cursor = cursor
		}
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			params.Status = status
		}

		resp, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// UpdatePromotion applies a partial update to a promotion.
func UpdatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := promotionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePromotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.Update(r.Context(), id, promotions.UpdateParams{
			Name:          body.Name,
			Type:          body.Type,
			DiscountKind:  body.DiscountKind,
			DiscountValue: body.DiscountValue,
			MinPurchase:   body.MinPurchase,
			MaxDiscount:   body.MaxDiscount,
			Status:        body.Status,
			StartsAt:      body.StartsAt,
			EndsAt:        body.EndsAt,
			ProductIDs:    body.ProductIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

// ArchivePromotion retires a promotion without deleting the row.
func ArchivePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := promotionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Archive(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "archived"})
	}
}

func promotionIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "promotionID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion id")
	}
	return id, nil
}
