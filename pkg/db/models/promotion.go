package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kaiwenhsu/posify-backend/pkg/enums"
	"github.com/kaiwenhsu/posify-backend/pkg/promotion"
)

// Promotion is a stored discount rule. Type keeps the raw configured label
// (legacy labels included) so old rows keep evaluating exactly as they
// always have; resolution happens inside the evaluator.
type Promotion struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string                `gorm:"column:name;not null" json:"name"`
	Type          string                `gorm:"column:type;not null" json:"type"`
	DiscountKind  *enums.DiscountKind   `gorm:"column:discount_kind" json:"discount_kind,omitempty"`
	DiscountValue *float64              `gorm:"column:discount_value" json:"discount_value,omitempty"`
	MinPurchase   *int64                `gorm:"column:min_purchase" json:"min_purchase,omitempty"`
	MaxDiscount   *int64                `gorm:"column:max_discount" json:"max_discount,omitempty"`
	Status        enums.PromotionStatus `gorm:"column:status;not null;default:'draft'" json:"status"`
	StartsAt      *time.Time            `gorm:"column:starts_at" json:"starts_at,omitempty"`
	EndsAt        *time.Time            `gorm:"column:ends_at" json:"ends_at,omitempty"`
	ProductIDs    pq.StringArray        `gorm:"column:product_ids;type:text[]" json:"product_ids,omitempty"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// EvaluationDefinition projects the stored row into the evaluator's input.
func (p *Promotion) EvaluationDefinition() promotion.Definition {
	return promotion.Definition{
		Type:          p.Type,
		DiscountKind:  p.DiscountKind,
		DiscountValue: p.DiscountValue,
		MinPurchase:   p.MinPurchase,
		MaxDiscount:   p.MaxDiscount,
	}
}

// ScopedTo reports whether the promotion is limited to specific products.
func (p *Promotion) ScopedTo() bool {
	return len(p.ProductIDs) > 0
}

// CoversProduct reports whether the product falls inside the promotion's
// scope. Unscoped promotions cover everything.
func (p *Promotion) CoversProduct(productID uuid.UUID) bool {
	if !p.ScopedTo() {
		return true
	}
	id := productID.String()
	for _, candidate := range p.ProductIDs {
		if candidate == id {
			return true
		}
	}
	return false
}

// ActiveAt reports whether the promotion is live at the given instant:
// status active and inside the optional schedule window.
func (p *Promotion) ActiveAt(at time.Time) bool {
	if p.Status != enums.PromotionStatusActive {
		return false
	}
	if p.StartsAt != nil && at.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && !at.Before(*p.EndsAt) {
		return false
	}
	return true
}
