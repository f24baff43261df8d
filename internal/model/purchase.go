package model

import "time"

// Purchase is an immutable ledger entry for one completed sale.
type Purchase struct {
	ID               int64     `json:"id"`
	AccountID        int64     `json:"userId"`
	SweetID          int64     `json:"sweetId"`
	Quantity         int       `json:"quantity"`
	PurchasedAtPrice float64   `json:"purchasedAtPrice"`
	TotalAmount      float64   `json:"totalAmount"`
	CreatedAt        time.Time `json:"createdAt"`

	// Sweet is the current catalog view of the purchased sweet. It is nil
	// when the sweet has since been deleted.
	Sweet *Sweet `json:"sweet"`
}
