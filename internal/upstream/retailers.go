package upstream

import "strings"

// FallbackLogo decorates synthesized price entries that have no retailer.
const FallbackLogo = "🏷️"

// Retailer is a storefront partner whose affiliate links upstream stores.
type Retailer struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// knownRetailers is ordered; price comparison lists follow this order.
var knownRetailers = []Retailer{
	{Key: "amazon", Name: "Amazon", Logo: "https://www.google.com/s2/favicons?domain=amazon.in&sz=128"},
	{Key: "flipkart", Name: "Flipkart", Logo: "https://www.google.com/s2/favicons?domain=flipkart.com&sz=128"},
}

// KnownRetailers returns the partner retailers in display order.
func KnownRetailers() []Retailer {
	out := make([]Retailer, len(knownRetailers))
	copy(out, knownRetailers)
	return out
}

// LookupRetailer finds a partner by key, case-insensitively.
func LookupRetailer(key string) (Retailer, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, r := range knownRetailers {
		if r.Key == key {
			return r, true
		}
	}
	return Retailer{}, false
}
