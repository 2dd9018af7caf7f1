package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/donaldgifford/device-compare/pkg/extract"
)

// Device categories reported by upstream. An empty category means phone.
const (
	CategoryPhone  = "phone"
	CategoryTablet = "tablet"
	CategoryWatch  = "watch"
)

// CatalogRecord is one device as returned by the paginated search endpoint.
type CatalogRecord struct {
	ID             string            `json:"_id"`
	Brand          string            `json:"brand"`
	ModelName      string            `json:"model_name"`
	Image          string            `json:"image"`
	URL            string            `json:"url"`
	Category       string            `json:"category,omitempty"`
	SearchSpecs    SearchSpecs       `json:"search_specs"`
	TechScore      float64           `json:"tech_score"`
	Specs          extract.Specs     `json:"specs,omitempty"`
	AffiliateLinks AffiliateLinks    `json:"affiliate_links,omitempty"`
	ExpertView     *ExpertView       `json:"expert_view,omitempty"`
}

// SearchSpecs holds the structured numeric specs that every record carries.
type SearchSpecs struct {
	RAMGB            float64  `json:"ram_gb"`
	StorageGB        float64  `json:"storage_gb"`
	BatteryMAh       float64  `json:"battery_mah"`
	ScreenSizeInch   float64  `json:"screen_size_inch"`
	RefreshRateHz    float64  `json:"refresh_rate_hz"`
	ReleaseYear      float64  `json:"release_year"`
	Has5G            bool     `json:"has_5g"`
	PriceINR         *float64 `json:"price_inr,omitempty"`
	PriceEstimateEUR *float64 `json:"price_estimate_eur,omitempty"`
	Chipset          string   `json:"chipset"`
}

// AffiliateLinks maps a retailer key to its affiliate URL.
type AffiliateLinks map[string]string

// UnmarshalJSON keeps string entries and drops everything else. A value that
// is not an object decodes to no links.
func (a *AffiliateLinks) UnmarshalJSON(data []byte) error {
	*a = nil

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil //nolint:nilerr // malformed links are treated as absent
	}

	links := make(AffiliateLinks, len(fields))
	for k, raw := range fields {
		if v, ok := lenientString(raw); ok {
			links[k] = v
		}
	}
	*a = links
	return nil
}

// ExpertView aggregates third-party review scores on a 0-10 scale.
type ExpertView struct {
	ScoreAvg    float64        `json:"score_avg"`
	ReviewCount int            `json:"review_count"`
	Sources     []ExpertSource `json:"sources"`
}

// UnmarshalJSON accepts scores and counts as numbers or numeric strings and
// skips sources that do not decode. A view that is not an object decodes to
// the zero view, which carries no reviews.
func (v *ExpertView) UnmarshalJSON(data []byte) error {
	*v = ExpertView{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil //nolint:nilerr // malformed views are treated as absent
	}

	v.ScoreAvg = lenientScore(fields["score_avg"]).Value
	if n := lenientScore(fields["review_count"]); n.Valid && n.Value > 0 {
		v.ReviewCount = int(n.Value)
	}

	var sources []json.RawMessage
	if err := json.Unmarshal(fields["sources"], &sources); err != nil {
		return nil //nolint:nilerr // a malformed source list means no sources
	}
	for _, raw := range sources {
		var src ExpertSource
		if err := json.Unmarshal(raw, &src); err == nil && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			v.Sources = append(v.Sources, src)
		}
	}
	return nil
}

// ExpertSource is one publication's review score.
type ExpertSource struct {
	Site  string  `json:"site"`
	Score float64 `json:"score"`
	URL   string  `json:"url"`
}

// UnmarshalJSON accepts the score as a number or numeric string. Fields of
// the wrong type are left empty.
func (e *ExpertSource) UnmarshalJSON(data []byte) error {
	*e = ExpertSource{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding expert source: %w", err)
	}

	e.Site, _ = lenientString(fields["site"])
	e.URL, _ = lenientString(fields["url"])
	e.Score = lenientScore(fields["score"]).Value
	return nil
}

func lenientString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func lenientScore(raw json.RawMessage) FlexScore {
	var f FlexScore
	_ = f.UnmarshalJSON(raw)
	return f
}

// CompareRecord is the pre-aggregated shape returned by the compare endpoint.
type CompareRecord struct {
	ID               string           `json:"id"`
	Model            string           `json:"model"`
	Image            string           `json:"image"`
	TechScore        float64          `json:"tech_score"`
	PriceINR         *float64         `json:"price_inr,omitempty"`
	Ratings          CompareRatings   `json:"ratings"`
	ComparisonValues ComparisonValues `json:"comparison_values"`
	DisplayText      DisplayText      `json:"display_text"`
}

// CompareRatings carries expert and user scores, both on a 0-10 scale.
type CompareRatings struct {
	ExpertScore FlexScore `json:"expert_score"`
	UserScore   float64   `json:"user_score"`
	UserVotes   int       `json:"user_votes"`
}

// ComparisonValues are numeric fields already shaped for side-by-side display.
type ComparisonValues struct {
	RAM         float64 `json:"ram"`
	Storage     float64 `json:"storage"`
	Battery     float64 `json:"battery"`
	RefreshRate float64 `json:"refresh_rate"`
	ScreenSize  float64 `json:"screen_size"`
	Year        float64 `json:"year"`
}

// DisplayText holds pre-formatted display strings.
type DisplayText struct {
	Memory    string `json:"memory"`
	Camera    string `json:"camera"`
	Battery   string `json:"battery"`
	Processor string `json:"processor"`
	Display   string `json:"display,omitempty"`
}

// FlexScore is a score that upstream sends either as a JSON number or as a
// numeric string. Valid is false when the value was absent, null, or did not
// parse to a finite number.
type FlexScore struct {
	Value float64
	Valid bool
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else
// leaves the score invalid without failing the surrounding record.
func (f *FlexScore) UnmarshalJSON(data []byte) error {
	*f = FlexScore{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil //nolint:nilerr // malformed scores are treated as absent
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil //nolint:nilerr // malformed scores are treated as absent
	}

	*f = FlexScore{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes the score as a number, or null when invalid.
func (f FlexScore) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// SearchResponse is the paginated search envelope.
type SearchResponse struct {
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
	Data  []CatalogRecord `json:"data"`
}

// CompareResponse is the batch compare envelope.
type CompareResponse struct {
	WinnerModel string          `json:"winner_model"`
	Phones      []CompareRecord `json:"phones"`
}

// Credentials is the login and signup request body.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request body field, not a secret
}

// AuthResponse is returned by login and signup. Upstream has used both
// field names over time.
type AuthResponse struct {
	Token       string `json:"token,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// BearerToken returns whichever token field is populated.
func (a *AuthResponse) BearerToken() string {
	if a.Token != "" {
		return a.Token
	}
	return a.AccessToken
}

// UserProfile is the authenticated user's profile.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *UserProfile) IsAdmin() bool {
	return strings.EqualFold(p.Role, "admin")
}
