package promotions

import (
	"time"

	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
)

// CreateParams carries the fields accepted when creating a promotion.
type CreateParams struct {
	Name          string
	Type          string
	DiscountKind  *string
	DiscountValue *float64
	MinPurchase   *int64
	MaxDiscount   *int64
	Status        *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	ProductIDs    []string
}

// UpdateParams carries a partial promotion update. Nil fields are untouched.
type UpdateParams struct {
	Name          *string
	Type          *string
	DiscountKind  *string
	DiscountValue *float64
	MinPurchase   *int64
	MaxDiscount   *int64
	Status        *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	ProductIDs    []string
}

// ListParams configures pagination and filtering for promotion listings.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult wraps returned promotions and the cursor for the next page.
type ListResult struct {
	Items  []models.Promotion `json:"items"`
	Cursor string             `json:"cursor"`
}
