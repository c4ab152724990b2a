package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/enums"
	pkgerrors "github.com/kaiwenhsu/posify-backend/pkg/errors"
)

type staticLister struct {
	promos []models.Promotion
	err    error
}

func (s *staticLister) ListActive(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	return s.promos, s.err
}

func activePromo(name, promoType string, value *float64) models.Promotion {
	kind := enums.DiscountKindPercentage
	return models.Promotion{
		ID:            uuid.New(),
		Name:          name,
		Type:          promoType,
		DiscountKind:  &kind,
		DiscountValue: value,
		Status:        enums.PromotionStatusActive,
	}
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func mustService(t *testing.T, lister ActiveLister) Service {
	t.Helper()
	svc, err := NewService(lister, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPreviewPicksLargestDiscount(t *testing.T) {
	ten := activePromo("9 折", "percentage_discount", f64(10))
	twenty := activePromo("8 折", "percentage_discount", f64(20))
	svc := mustService(t, &staticLister{promos: []models.Promotion{ten, twenty}})

	quote, err := svc.Preview(context.Background(), QuoteParams{
		Items: []LineItemInput{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 1000}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if quote.Subtotal != 1000 {
		t.Fatalf("expected subtotal 1000, got %d", quote.Subtotal)
	}
	if quote.Applied == nil || quote.Applied.PromotionID != twenty.ID {
		t.Fatalf("expected the 20%% promotion to win, got %+v", quote.Applied)
	}
	if quote.DiscountAmount != 200 || quote.Total != 800 {
		t.Fatalf("expected discount 200 total 800, got %d/%d", quote.DiscountAmount, quote.Total)
	}
	if len(quote.Evaluations) != 2 {
		t.Fatalf("expected both promotions evaluated, got %d", len(quote.Evaluations))
	}
}

func TestPreviewTieKeepsOldest(t *testing.T) {
	first := activePromo("first", "percentage_discount", f64(10))
	second := activePromo("second", "percentage_discount", f64(10))
	svc := mustService(t, &staticLister{promos: []models.Promotion{first, second}})

	quote, err := svc.Preview(context.Background(), QuoteParams{
		Items: []LineItemInput{{ProductID: uuid.NewString(), Quantity: 2, UnitPrice: 500}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if quote.Applied == nil || quote.Applied.PromotionID != first.ID {
		t.Fatalf("tie must keep the first-listed promotion, got %+v", quote.Applied)
	}
}

func TestPreviewNarrowsScopedPromotion(t *testing.T) {
	covered := uuid.New()
	other := uuid.New()

	scoped := activePromo("scoped 9 折", "percentage_discount", f64(10))
	scoped.ProductIDs = pq.StringArray{covered.String()}
	svc := mustService(t, &staticLister{promos: []models.Promotion{scoped}})

	quote, err := svc.Preview(context.Background(), QuoteParams{
		Items: []LineItemInput{
			{ProductID: covered.String(), Quantity: 1, UnitPrice: 400},
			{ProductID: other.String(), Quantity: 1, UnitPrice: 600},
		},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	// 10% of the covered 400, not of the full 1000
	if quote.Applied == nil || quote.DiscountAmount != 40 {
		t.Fatalf("expected scoped discount 40, got %+v", quote.Applied)
	}
	if quote.Total != 960 {
		t.Fatalf("expected total 960, got %d", quote.Total)
	}
}

func TestPreviewScopedPromotionMissesCart(t *testing.T) {
	scoped := activePromo("scoped", "percentage_discount", f64(10))
	scoped.ProductIDs = pq.StringArray{uuid.NewString()}
	scoped.MinPurchase = i64(1)
	svc := mustService(t, &staticLister{promos: []models.Promotion{scoped}})

	quote, err := svc.Preview(context.Background(), QuoteParams{
		Items: []LineItemInput{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 500}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if quote.Applied != nil {
		t.Fatalf("promotion covering nothing in the cart must not apply, got %+v", quote.Applied)
	}
	if quote.Total != 500 {
		t.Fatalf("expected undiscounted total, got %d", quote.Total)
	}
}

func TestPreviewSkipsPromotionsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	ended := activePromo("ended", "percentage_discount", f64(50))
	past := now.Add(-time.Minute)
	ended.EndsAt = &past
	draft := activePromo("draft", "percentage_discount", f64(50))
	draft.Status = enums.PromotionStatusDraft
	live := activePromo("live", "percentage_discount", f64(10))

	svc := mustService(t, &staticLister{promos: []models.Promotion{ended, draft, live}})

	quote, err := svc.Preview(context.Background(), QuoteParams{
		At:    now,
		Items: []LineItemInput{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 1000}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(quote.Evaluations) != 1 {
		t.Fatalf("expected only the live promotion evaluated, got %d", len(quote.Evaluations))
	}
	if quote.Applied == nil || quote.Applied.PromotionID != live.ID {
		t.Fatalf("expected live promotion applied, got %+v", quote.Applied)
	}
}

func TestPreviewNoApplicablePromotions(t *testing.T) {
	gift := activePromo("贈品", "gift", nil)
	svc := mustService(t, &staticLister{promos: []models.Promotion{gift}})

	quote, err := svc.Preview(context.Background(), QuoteParams{
		Items: []LineItemInput{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 300}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if quote.Applied != nil {
		t.Fatalf("gift promotions never discount, got %+v", quote.Applied)
	}
	if quote.DiscountAmount != 0 || quote.Total != 300 {
		t.Fatalf("expected passthrough totals, got %d/%d", quote.DiscountAmount, quote.Total)
	}
}

func TestPreviewHonorsExplicitLineSubtotal(t *testing.T) {
	promo := activePromo("9 折", "percentage_discount", f64(10))
	svc := mustService(t, &staticLister{promos: []models.Promotion{promo}})

	override := i64(900)
	quote, err := svc.Preview(context.Background(), QuoteParams{
		Items: []LineItemInput{{ProductID: uuid.NewString(), Quantity: 2, UnitPrice: 500, LineSubtotal: override}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if quote.Subtotal != 900 {
		t.Fatalf("caller-supplied line subtotal must win, got %d", quote.Subtotal)
	}
	if quote.DiscountAmount != 90 {
		t.Fatalf("expected discount off the supplied subtotal, got %d", quote.DiscountAmount)
	}
}

func TestPreviewValidation(t *testing.T) {
	svc := mustService(t, &staticLister{})

	cases := []struct {
		name  string
		items []LineItemInput
	}{
		{"empty cart", nil},
		{"bad product id", []LineItemInput{{ProductID: "nope", Quantity: 1, UnitPrice: 100}}},
		{"zero quantity", []LineItemInput{{ProductID: uuid.NewString(), Quantity: 0, UnitPrice: 100}}},
		{"negative price", []LineItemInput{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: -1}}},
		{"negative line subtotal", []LineItemInput{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 100, LineSubtotal: i64(-1)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Preview(context.Background(), QuoteParams{Items: tc.items})
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
