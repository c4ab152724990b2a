package promotion

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/kaiwenhsu/posify-backend/pkg/enums"
)

// Evaluate decides whether the promotion applies to the cart and computes
// the discount amount. It is pure and total: no input makes it panic or
// return an error — a malformed configuration degrades to a non-applicable
// result so a broken promotion can never abort a checkout.
func Evaluate(def Definition, items []LineItem, orderSubtotal int64) Result {
	typed, ok := enums.NormalizePromotionType(def.Type)
	if !ok {
		return notApplicable(ReasonUnsupportedType, "")
	}

	switch typed {
	case enums.PromotionTypePercentageDiscount:
		return evaluatePercentage(def, orderSubtotal)
	case enums.PromotionTypeFixedDiscount:
		return evaluateFixed(def, orderSubtotal)
	case enums.PromotionTypeBuyXGetY:
		return evaluateBuyThreeGetOne(items)
	case enums.PromotionTypeBundlePrice:
		return evaluateBundle(def, orderSubtotal)
	case enums.PromotionTypeSecondHalfPrice:
		return evaluateSecondHalf(items)
	case enums.PromotionTypeQuantityDiscount:
		return evaluateQuantity(def, items, orderSubtotal)
	default:
		// Gift, points and shipping promotions never contribute a cart
		// discount amount.
		return notApplicable(ReasonUnsupportedType, "")
	}
}

func evaluatePercentage(def Definition, subtotal int64) Result {
	value, ok := configuredValue(def.DiscountValue)
	if !ok {
		return notApplicable(ReasonMissingValue, "")
	}
	if gated, blocked := minPurchaseGate(def.MinPurchase, subtotal); blocked {
		return gated
	}

	var raw int64
	var description string
	if def.isPercentageKind() {
		raw = percentageOf(subtotal, value)
		description = fmt.Sprintf("%s%% 折扣", formatValue(value))
	} else {
		raw = roundAmount(value)
		description = fmt.Sprintf("折扣 $%s", formatValue(value))
	}

	return Result{
		Applicable:     true,
		DiscountAmount: capDiscount(raw, def.MaxDiscount),
		Description:    description,
		Reason:         ReasonApplied,
	}
}

func evaluateFixed(def Definition, subtotal int64) Result {
	if gated, blocked := minPurchaseGate(def.MinPurchase, subtotal); blocked {
		return gated
	}
	value, ok := configuredValue(def.DiscountValue)
	if !ok {
		// A missing value does not disable a fixed promotion, it only
		// clamps the discount to zero. The spend gate above still ran.
		return Result{Applicable: true, Reason: ReasonApplied}
	}

	amount := roundAmount(value)
	if amount > subtotal {
		amount = subtotal
	}
	return Result{
		Applicable:     true,
		DiscountAmount: amount,
		Description:    fmt.Sprintf("折扣 $%s", formatValue(value)),
		Reason:         ReasonApplied,
	}
}

// evaluateBuyThreeGetOne implements the fixed buy-3-get-1-free policy: the
// cheapest unit out of every three is free.
func evaluateBuyThreeGetOne(items []LineItem) Result {
	totalQty := totalQuantity(items)
	if totalQty < 2 {
		return notApplicable(ReasonInsufficientQuantity, "需至少購買 2 件")
	}

	freeCount := totalQty / 3
	if freeCount == 0 {
		return notApplicable(ReasonInsufficientQuantity, "")
	}

	prices := unitPrices(items)
	sortPricesAscending(prices)
	return Result{
		Applicable:     true,
		DiscountAmount: sumLowest(prices, freeCount),
		Description:    fmt.Sprintf("買3送1 (%d件免費)", freeCount),
		Reason:         ReasonApplied,
	}
}

func evaluateBundle(def Definition, subtotal int64) Result {
	value, ok := configuredValue(def.DiscountValue)
	if !ok {
		return notApplicable(ReasonMissingValue, "")
	}

	amount := subtotal - roundAmount(value)
	if amount <= 0 {
		return notApplicable(ReasonBundleNotCheaper, "")
	}
	return Result{
		Applicable:     true,
		DiscountAmount: amount,
		Description:    fmt.Sprintf("組合價 $%s", formatValue(value)),
		Reason:         ReasonApplied,
	}
}

// evaluateSecondHalf implements the fixed second-item-half-price policy.
// Units are paired from the most expensive down so the higher-priced unit
// in each pair stays full price and its partner is half price.
func evaluateSecondHalf(items []LineItem) Result {
	if totalQuantity(items) < 2 {
		return notApplicable(ReasonInsufficientQuantity, "需至少購買 2 件")
	}

	prices := unitPrices(items)
	sortPricesDescending(prices)
	discounted := secondOfPairTotal(prices)
	return Result{
		Applicable:     true,
		DiscountAmount: halfOf(discounted),
		Description:    "第二件半價",
		Reason:         ReasonApplied,
	}
}

func evaluateQuantity(def Definition, items []LineItem, subtotal int64) Result {
	value, ok := configuredValue(def.DiscountValue)
	if !ok {
		return notApplicable(ReasonMissingValue, "")
	}

	// For quantity promotions MinPurchase is a minimum unit count, not a
	// spend threshold.
	if def.MinPurchase != nil && *def.MinPurchase > 0 {
		if int64(totalQuantity(items)) < *def.MinPurchase {
			return notApplicable(ReasonInsufficientQuantity, fmt.Sprintf("需購買 %d 件以上", *def.MinPurchase))
		}
	}

	var raw int64
	var description string
	if def.isPercentageKind() {
		raw = percentageOf(subtotal, value)
		description = fmt.Sprintf("%s%% 折扣", formatValue(value))
	} else {
		raw = roundAmount(value)
		description = fmt.Sprintf("折扣 $%s", formatValue(value))
	}

	return Result{
		Applicable:     true,
		DiscountAmount: capDiscount(raw, def.MaxDiscount),
		Description:    description,
		Reason:         ReasonApplied,
	}
}

// minPurchaseGate rejects carts whose subtotal is below the configured
// spend threshold. A subtotal exactly at the threshold passes.
func minPurchaseGate(minPurchase *int64, subtotal int64) (Result, bool) {
	if minPurchase == nil || *minPurchase <= 0 {
		return Result{}, false
	}
	if subtotal < *minPurchase {
		return Result{
			Description: fmt.Sprintf("未達最低消費 $%d", *minPurchase),
			Reason:      ReasonBelowMinPurchase,
		}, true
	}
	return Result{}, false
}

// configuredValue reports whether a discount value is usable. Zero counts
// as unconfigured, never as a legitimate zero-value discount.
func configuredValue(value *float64) (float64, bool) {
	if value == nil || *value == 0 {
		return 0, false
	}
	return *value, true
}

func capDiscount(amount int64, maxDiscount *int64) int64 {
	if maxDiscount != nil && *maxDiscount > 0 && amount > *maxDiscount {
		return *maxDiscount
	}
	return amount
}

// percentageOf computes subtotal*percent/100 rounded half-up to a whole
// currency unit.
func percentageOf(subtotal int64, percent float64) int64 {
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

func roundAmount(value float64) int64 {
	return decimal.NewFromFloat(value).Round(0).IntPart()
}

func halfOf(amount int64) int64 {
	return decimal.NewFromInt(amount).
		Div(decimal.NewFromInt(2)).
		Round(0).
		IntPart()
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func notApplicable(reason Reason, description string) Result {
	return Result{Description: description, Reason: reason}
}
