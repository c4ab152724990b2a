package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	pkgerrors "github.com/kaiwenhsu/posify-backend/pkg/errors"
	"github.com/kaiwenhsu/posify-backend/pkg/metrics"
	"github.com/kaiwenhsu/posify-backend/pkg/promotion"
)

// ActiveLister supplies the live promotion set, oldest first.
type ActiveLister interface {
	ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error)
}

// Service prices cart snapshots against the active promotion set.
type Service interface {
	Preview(ctx context.Context, params QuoteParams) (*Quote, error)
}

type service struct {
	promos  ActiveLister
	metrics *metrics.EvaluationMetrics
}

// NewService wires quote dependencies. Metrics are optional.
func NewService(promos ActiveLister, evalMetrics *metrics.EvaluationMetrics) (Service, error) {
	if promos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "active promotion source required")
	}
	return &service{promos: promos, metrics: evalMetrics}, nil
}

// Preview evaluates every live promotion against the cart, narrowing scoped
// promotions to the lines they cover, and applies the single largest
// discount. Ties keep the oldest promotion.
func (s *service) Preview(ctx context.Context, params QuoteParams) (*Quote, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveQuote(time.Since(started))
	}()

	items, subtotal, err := buildCart(params.Items)
	if err != nil {
		return nil, err
	}

	at := params.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	promos, err := s.promos.ListActive(ctx, at)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Subtotal:    subtotal,
		Total:       subtotal,
		Evaluations: make([]Evaluation, 0, len(promos)),
	}

	var applied *Evaluation
	for i := range promos {
		promo := &promos[i]
		if !promo.ActiveAt(at) {
			continue
		}

		scopedItems, scopedSubtotal := narrowScope(promo, items, subtotal)
		result := promotion.Evaluate(promo.EvaluationDefinition(), scopedItems, scopedSubtotal)
		s.metrics.IncEvaluation(promo.Type, result.Applicable)

		eval := Evaluation{
			PromotionID:    promo.ID,
			Name:           promo.Name,
			Type:           promo.Type,
			Applicable:     result.Applicable,
			DiscountAmount: result.DiscountAmount,
			Description:    result.Description,
			Reason:         result.Reason,
		}
		quote.Evaluations = append(quote.Evaluations, eval)

		// strictly greater keeps the first-created promotion on ties
		if eval.Applicable && eval.DiscountAmount > 0 {
			if applied == nil || eval.DiscountAmount > applied.DiscountAmount {
				chosen := eval
				applied = &chosen
			}
		}
	}

	if applied != nil {
		quote.Applied = applied
		quote.DiscountAmount = applied.DiscountAmount
		quote.Total = subtotal - applied.DiscountAmount
		if quote.Total < 0 {
			quote.Total = 0
		}
		s.metrics.AddDiscount(applied.DiscountAmount)
	}
	return quote, nil
}

func buildCart(inputs []LineItemInput) ([]promotion.LineItem, int64, error) {
	if len(inputs) == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}

	items := make([]promotion.LineItem, 0, len(inputs))
	var subtotal int64
	for i, input := range inputs {
		productID, err := uuid.Parse(strings.TrimSpace(input.ProductID))
		if err != nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
				WithDetails(map[string]any{"index": i, "product_id": input.ProductID})
		}
		if input.Quantity <= 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"index": i})
		}
		if input.UnitPrice < 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative").
				WithDetails(map[string]any{"index": i})
		}

		lineSubtotal := int64(input.Quantity) * input.UnitPrice
		if input.LineSubtotal != nil {
			if *input.LineSubtotal < 0 {
				return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "line subtotal must not be negative").
					WithDetails(map[string]any{"index": i})
			}
			lineSubtotal = *input.LineSubtotal
		}

		items = append(items, promotion.LineItem{
			ProductID:    productID,
			Quantity:     input.Quantity,
			UnitPrice:    input.UnitPrice,
			LineSubtotal: lineSubtotal,
		})
		subtotal += lineSubtotal
	}
	return items, subtotal, nil
}

// narrowScope filters the cart down to the lines a scoped promotion covers.
// Unscoped promotions see the whole cart and the full order subtotal.
func narrowScope(promo *models.Promotion, items []promotion.LineItem, subtotal int64) ([]promotion.LineItem, int64) {
	if !promo.ScopedTo() {
		return items, subtotal
	}
	scoped := make([]promotion.LineItem, 0, len(items))
	var scopedSubtotal int64
	for _, item := range items {
		if promo.CoversProduct(item.ProductID) {
			scoped = append(scoped, item)
			scopedSubtotal += item.LineSubtotal
		}
	}
	return scoped, scopedSubtotal
}
