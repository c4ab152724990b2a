package enums

import "fmt"

// PromotionType identifies the discount strategy a promotion uses.
type PromotionType string

const (
	PromotionTypePercentageDiscount PromotionType = "percentage_discount"
	PromotionTypeFixedDiscount      PromotionType = "fixed_discount"
	PromotionTypeBuyXGetY           PromotionType = "buy_x_get_y"
	PromotionTypeBundlePrice        PromotionType = "bundle_price"
	PromotionTypeSecondHalfPrice    PromotionType = "second_half_price"
	PromotionTypeQuantityDiscount   PromotionType = "quantity_discount"
	PromotionTypeGiftWithPurchase   PromotionType = "gift_with_purchase"
	PromotionTypePointsMultiplier   PromotionType = "points_multiplier"
	PromotionTypeFreeShipping       PromotionType = "free_shipping"
)

var validPromotionTypes = []PromotionType{
	PromotionTypePercentageDiscount,
	PromotionTypeFixedDiscount,
	PromotionTypeBuyXGetY,
	PromotionTypeBundlePrice,
	PromotionTypeSecondHalfPrice,
	PromotionTypeQuantityDiscount,
	PromotionTypeGiftWithPurchase,
	PromotionTypePointsMultiplier,
	PromotionTypeFreeShipping,
}

// legacyPromotionTypes maps labels kept for backward compatibility with
// configurations written before the type taxonomy was split out.
var legacyPromotionTypes = map[string]PromotionType{
	"discount":         PromotionTypePercentageDiscount,
	"bundle":           PromotionTypeBundlePrice,
	"member_exclusive": PromotionTypePercentageDiscount,
	"gift":             PromotionTypeGiftWithPurchase,
	"points":           PromotionTypePointsMultiplier,
}

// String implements fmt.Stringer.
func (p PromotionType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionType.
func (p PromotionType) IsValid() bool {
	for _, candidate := range validPromotionTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// NormalizePromotionType resolves legacy labels to their current type and
// reports whether the raw value maps to any known type at all.
func NormalizePromotionType(value string) (PromotionType, bool) {
	if mapped, ok := legacyPromotionTypes[value]; ok {
		return mapped, true
	}
	typed := PromotionType(value)
	if typed.IsValid() {
		return typed, true
	}
	return "", false
}

// ParsePromotionType converts raw input into a PromotionType, accepting
// legacy labels.
func ParsePromotionType(value string) (PromotionType, error) {
	if typed, ok := NormalizePromotionType(value); ok {
		return typed, nil
	}
	return "", fmt.Errorf("invalid promotion type %q", value)
}
