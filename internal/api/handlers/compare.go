package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/device-compare/internal/catalog"
	"github.com/donaldgifford/device-compare/internal/compare"
)

// Comparer builds side-by-side views.
type Comparer interface {
	Compare(ctx context.Context, ids []string) (*catalog.CompareResult, error)
}

// CompareHandler serves comparisons as JSON, as a table and as HTML.
type CompareHandler struct {
	catalog Comparer
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(c Comparer) *CompareHandler {
	return &CompareHandler{catalog: c}
}

// CompareInput selects the products to compare.
type CompareInput struct {
	IDs string `query:"ids" required:"true" doc:"Comma-separated product IDs" example:"id1,id2"`
}

// CompareOutput is the comparison result.
type CompareOutput struct {
	Body *catalog.CompareResult
}

// Compare returns the products for ids in upstream order with the winner.
func (h *CompareHandler) Compare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	res, err := h.catalog.Compare(ctx, []string{input.IDs})
	if err != nil {
		return nil, apiError("comparing products", err)
	}
	return &CompareOutput{Body: res}, nil
}

// CompareTableOutput is the comparison laid out row by row.
type CompareTableOutput struct {
	Body struct {
		WinnerModel string        `json:"winnerModel"`
		Table       compare.Table `json:"table"`
	}
}

// Table returns the comparison grouped into the comparison page's
// categories.
func (h *CompareHandler) Table(ctx context.Context, input *CompareInput) (*CompareTableOutput, error) {
	res, err := h.catalog.Compare(ctx, []string{input.IDs})
	if err != nil {
		return nil, apiError("comparing products", err)
	}

	out := &CompareTableOutput{}
	out.Body.WinnerModel = res.WinnerModel
	out.Body.Table = compare.Build(res.Products)
	return out, nil
}

// Page renders the comparison table as HTML.
func (h *CompareHandler) Page(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.catalog.Compare(ctx, []string{c.QueryParam("ids")})
	if err != nil {
		return echoError("comparing products", err)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return compare.Page(compare.Build(res.Products)).Render(ctx, c.Response())
}

// RegisterCompareRoutes registers the JSON comparison endpoints with the
// Huma API. The HTML page is mounted on echo directly.
func RegisterCompareRoutes(api huma.API, h *CompareHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "compare-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/compare",
		Summary:     "Compare products",
		Description: "Fetches full compare records for up to five products and adapts them.",
		Tags:        []string{"compare"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway},
	}, h.Compare)

	huma.Register(api, huma.Operation{
		OperationID: "compare-table",
		Method:      http.MethodGet,
		Path:        "/api/v1/compare/table",
		Summary:     "Comparison table",
		Description: "Returns the comparison as labelled rows grouped by category, flagging rows that differ.",
		Tags:        []string{"compare"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway},
	}, h.Table)
}
