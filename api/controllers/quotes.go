package controllers

import (
	"net/http"
	"time"

	"github.com/kaiwenhsu/posify-backend/api/responses"
	"github.com/kaiwenhsu/posify-backend/api/validators"
	"github.com/kaiwenhsu/posify-backend/internal/quotes"
	"github.com/kaiwenhsu/posify-backend/pkg/logger"
)

type quoteLineItemRequest struct {
	ProductID    string `json:"product_id" validate:"required,uuid"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice    int64  `json:"unit_price" validate:"gte=0"`
	LineSubtotal *int64 `json:"line_subtotal,omitempty" validate:"omitempty,gte=0"`
}

type previewQuoteRequest struct {
	Items []quoteLineItemRequest `json:"items" validate:"required,min=1,dive"`
	At    *time.Time             `json:"at,omitempty"`
}

// PreviewQuote prices a cart snapshot against the live promotion set.
func PreviewQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body previewQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := quotes.QuoteParams{
			Items: make([]quotes.LineItemInput, 0, len(body.Items)),
		}
		if body.At != nil {
			params.At = body.At.UTC()
		}
		for _, item := range body.Items {
			params.Items = append(params.Items, quotes.LineItemInput{
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
				LineSubtotal: item.LineSubtotal,
			})
		}

		quote, err := svc.Preview(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
