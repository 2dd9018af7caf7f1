package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/internal/api/handlers"
)

func TestNormalizePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		wantBody []string
		notBody  []string
	}{
		{
			name:     "rupee amount in prose",
			text:     "Now only ₹1,09,999!",
			wantBody: []string{`"available":true`, `"amount":109999`, `"text":"109999"`, `"formatted":"₹1,09,999"`, `"compact":"₹1.1L"`},
		},
		{
			name:     "below one lakh",
			text:     "$ 12,499",
			wantBody: []string{`"amount":12499`, `"compact":"₹12K"`},
		},
		{
			name:     "no currency symbol",
			text:     "Price on request",
			wantBody: []string{`"available":false`, `"amount":0`, `"text":"unavailable"`},
			notBody:  []string{`"formatted"`, `"compact"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterNormalizeRoutes(api)

			resp := api.Post("/api/v1/normalize/price", map[string]any{"text": tt.text})
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
			for _, not := range tt.notBody {
				assert.NotContains(t, resp.Body.String(), not)
			}
		})
	}
}
