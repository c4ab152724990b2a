package promotion

import (
	"github.com/google/uuid"

	"github.com/kaiwenhsu/posify-backend/pkg/enums"
)

// Definition carries the configuration of a single promotion as the
// evaluator sees it. Optional numeric fields use pointers; a nil pointer and
// an explicit zero are both treated as "not configured", matching how stored
// configurations have always behaved.
type Definition struct {
	// Type is the raw configured label. Legacy labels are resolved before
	// dispatch; anything unrecognized evaluates as a non-discount type.
	Type          string
	DiscountKind  *enums.DiscountKind
	DiscountValue *float64
	MinPurchase   *int64
	MaxDiscount   *int64
}

func (d Definition) isPercentageKind() bool {
	return d.DiscountKind != nil && *d.DiscountKind == enums.DiscountKindPercentage
}

// LineItem is one distinct product entry in the cart snapshot.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
	// LineSubtotal is the caller-computed contribution to the order
	// subtotal. The evaluator trusts it for sums and uses UnitPrice for
	// per-unit comparisons.
	LineSubtotal int64
}

// Reason explains why an evaluation turned out the way it did, letting
// callers tell misconfiguration apart from ordinary non-qualification
// without changing the Applicable/DiscountAmount contract.
type Reason string

const (
	ReasonApplied              Reason = "applied"
	ReasonMissingValue         Reason = "missing_value"
	ReasonBelowMinPurchase     Reason = "below_min_purchase"
	ReasonInsufficientQuantity Reason = "insufficient_quantity"
	ReasonBundleNotCheaper     Reason = "bundle_not_cheaper"
	ReasonUnsupportedType      Reason = "unsupported_type"
)

// Result is the discount decision for one promotion against one cart.
type Result struct {
	Applicable     bool
	DiscountAmount int64
	Description    string
	Reason         Reason
}
