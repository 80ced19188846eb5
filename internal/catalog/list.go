package catalog

import "github.com/brightcart/storefront-backend/pkg/enums"

// Filters describe the supported predicate knobs for the browse endpoint.
// Every predicate is optional; present predicates are AND-combined and absent
// ones impose no constraint. Inactive products never match.
type Filters struct {
	Category      *string `json:"category,omitempty"`
	Text          string  `json:"q,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	PriceMinCents *int    `json:"price_min_cents,omitempty"`
	PriceMaxCents *int    `json:"price_max_cents,omitempty"`
}

// invertedBounds reports whether both price bounds are set with min above
// max. Such a query is vacuous by contract, not a fault.
func (f Filters) invertedBounds() bool {
	return f.PriceMinCents != nil && f.PriceMaxCents != nil && *f.PriceMinCents > *f.PriceMaxCents
}

// QueryInput bundles the inputs for a catalog browse.
type QueryInput struct {
	Filters Filters
	Sort    enums.ProductSort
	Limit   int
	Offset  int
}
