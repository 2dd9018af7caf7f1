package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/internal/quota"
	"github.com/donaldgifford/device-compare/internal/upstream"
)

// QuotaManager reads and clears anonymous search counts.
type QuotaManager interface {
	Check(ctx context.Context, client string) (quota.Status, error)
	Reset(ctx context.Context, client string) error
}

// UpstreamBudget reports the upstream call budget.
type UpstreamBudget interface {
	Status() upstream.LimiterStatus
}

// QuotaHandler exposes the anonymous search quota and the upstream call
// budget.
type QuotaHandler struct {
	quota    QuotaManager
	upstream UpstreamBudget
	tokens   BearerVerifier
}

// NewQuotaHandler creates a new QuotaHandler. rl may be nil when upstream
// calls are not rate limited. Resetting a count needs a bearer token that
// v accepts; with a nil v resets are refused.
func NewQuotaHandler(q QuotaManager, rl UpstreamBudget, v BearerVerifier) *QuotaHandler {
	return &QuotaHandler{quota: q, upstream: rl, tokens: v}
}

// ClientQuotaInput names the client.
type ClientQuotaInput struct {
	ClientID string `path:"client_id" doc:"Client identity (X-Client-ID value or IP)"`
}

// ClientQuotaOutput is a client's search allowance.
type ClientQuotaOutput struct {
	Body quota.Status
}

// GetClientQuota reports how many anonymous searches a client has left.
func (h *QuotaHandler) GetClientQuota(ctx context.Context, input *ClientQuotaInput) (*ClientQuotaOutput, error) {
	st, err := h.quota.Check(ctx, input.ClientID)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}
	return &ClientQuotaOutput{Body: st}, nil
}

// ResetClientQuotaInput names the client and carries the caller's token.
type ResetClientQuotaInput struct {
	ClientID      string `path:"client_id" doc:"Client identity (X-Client-ID value or IP)"`
	Authorization string `header:"Authorization" doc:"Bearer token of a logged-in user"`
}

// ResetClientQuota clears a client's count, e.g. after it logs in.
func (h *QuotaHandler) ResetClientQuota(ctx context.Context, input *ResetClientQuotaInput) (*struct{}, error) {
	token := bearer(ctx, input.Authorization)
	if token == "" || h.tokens == nil {
		return nil, huma.Error401Unauthorized("bearer token required")
	}
	if err := h.tokens.Verify(ctx, token); err != nil {
		return nil, apiError("verifying token", err)
	}

	if err := h.quota.Reset(ctx, input.ClientID); err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}
	return nil, nil
}

// UpstreamQuotaOutput is the response body for the upstream quota endpoint.
type UpstreamQuotaOutput struct {
	Body struct {
		Limited    bool      `json:"limited" doc:"Whether a rate limiter is configured"`
		DailyLimit int64     `json:"daily_limit" doc:"Configured daily call limit; 0 means unlimited" example:"5000"`
		DailyUsed  int64     `json:"daily_used" doc:"Calls used in the current 24-hour window" example:"142"`
		Remaining  int64     `json:"remaining" doc:"Calls remaining; -1 when unlimited" example:"4858"`
		ResetAt    time.Time `json:"reset_at,omitzero" doc:"When the current 24-hour window expires"`
	}
}

// GetUpstreamQuota returns the upstream call budget.
func (h *QuotaHandler) GetUpstreamQuota(_ context.Context, _ *struct{}) (*UpstreamQuotaOutput, error) {
	resp := &UpstreamQuotaOutput{}
	if h.upstream == nil {
		resp.Body.Remaining = -1
		return resp, nil
	}

	st := h.upstream.Status()
	resp.Body.Limited = true
	resp.Body.DailyLimit = st.DailyLimit
	resp.Body.DailyUsed = st.DailyUsed
	resp.Body.Remaining = st.DailyRemaining
	resp.Body.ResetAt = st.ResetAt
	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoints with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-client-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota/{client_id}",
		Summary:     "Get a client's search quota",
		Tags:        []string{"quota"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.GetClientQuota)

	huma.Register(api, huma.Operation{
		OperationID:   "reset-client-quota",
		Method:        http.MethodDelete,
		Path:          "/api/v1/quota/{client_id}",
		Summary:       "Reset a client's search quota",
		Tags:          []string{"quota"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusInternalServerError},
	}, h.ResetClientQuota)

	huma.Register(api, huma.Operation{
		OperationID: "get-upstream-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/upstream/quota",
		Summary:     "Get upstream API budget",
		Description: "Returns the current daily upstream call usage, remaining budget, and window reset time.",
		Tags:        []string{"quota"},
	}, h.GetUpstreamQuota)
}
