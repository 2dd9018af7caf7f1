package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/pkg/normalize"
)

// NormalizePriceInput is free-text price to normalize.
type NormalizePriceInput struct {
	Body struct {
		Text string `json:"text" doc:"Price text as scraped from a retailer" example:"Now only ₹1,09,999!"`
	}
}

// NormalizePriceOutput is the parsed amount with its display forms.
type NormalizePriceOutput struct {
	Body struct {
		Available bool   `json:"available"`
		Amount    int64  `json:"amount"              example:"109999"`
		Text      string `json:"text"                example:"109999"      doc:"Amount as digits, or \"unavailable\""`
		Formatted string `json:"formatted,omitempty" example:"₹1,09,999"`
		Compact   string `json:"compact,omitempty"   example:"₹1.1L"`
	}
}

// NormalizePrice parses a currency amount out of free text.
func NormalizePrice(_ context.Context, input *NormalizePriceInput) (*NormalizePriceOutput, error) {
	out := &NormalizePriceOutput{}
	out.Body.Text = normalize.PriceText(input.Body.Text)

	amount, ok := normalize.NormalizePrice(input.Body.Text)
	if !ok {
		return out, nil
	}
	out.Body.Available = true
	out.Body.Amount = amount
	out.Body.Formatted = normalize.FormatINR(amount)
	out.Body.Compact = normalize.FormatCompactINR(amount)
	return out, nil
}

// RegisterNormalizeRoutes registers the price normalization endpoint with
// the Huma API.
func RegisterNormalizeRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "normalize-price",
		Method:      http.MethodPost,
		Path:        "/api/v1/normalize/price",
		Summary:     "Normalize a price string",
		Description: "Extracts the first currency-prefixed amount from free text and formats it for display.",
		Tags:        []string{"normalize"},
	}, NormalizePrice)
}
