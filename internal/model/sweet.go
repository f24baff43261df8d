package model

import "time"

// MaxQuantity caps a sweet's stock and the units moved by one request.
// Together with the 10,000,000 price cap on commands it keeps every
// purchase total a finite number.
const MaxQuantity = 1_000_000

// Sweet is a catalog entry with a price and a stock counter.
type Sweet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	OwnerID   int64     `json:"createdBy"`
	ImageMime string    `json:"imageMime,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Joined fields (not always populated).
	Owner *PublicAccount `json:"owner,omitempty"`
}

// SweetFilter narrows a catalog search. Zero values mean "no filter".
type SweetFilter struct {
	NameTokens []string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
}
