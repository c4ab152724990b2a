package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenhsu/posify-backend/pkg/promotion"
)

// LineItemInput is one cart line supplied by the caller. LineSubtotal is
// optional; when absent it defaults to Quantity * UnitPrice.
type LineItemInput struct {
	ProductID    string
	Quantity     int
	UnitPrice    int64
	LineSubtotal *int64
}

// QuoteParams carries the cart snapshot to price.
type QuoteParams struct {
	Items []LineItemInput
	At    time.Time
}

// Evaluation is the outcome of running one promotion against the cart.
type Evaluation struct {
	PromotionID    uuid.UUID        `json:"promotion_id"`
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	Applicable     bool             `json:"applicable"`
	DiscountAmount int64            `json:"discount_amount"`
	Description    string           `json:"description"`
	Reason         promotion.Reason `json:"reason"`
}

// Quote is the discount decision for a cart snapshot.
type Quote struct {
	Subtotal       int64        `json:"subtotal"`
	DiscountAmount int64        `json:"discount_amount"`
	Total          int64        `json:"total"`
	Applied        *Evaluation  `json:"applied,omitempty"`
	Evaluations    []Evaluation `json:"evaluations"`
}
