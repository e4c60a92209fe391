package model

import "time"

// Purchase is recorded manually by an administrator. The referrer is derived
// through the buyer's RefPartnerCode, never stored on the purchase itself.
type Purchase struct {
	ID        int64
	UserID    int64
	Amount    float64
	Comment   string
	CreatedAt time.Time
}

// PurchaseListItem joins a purchase with its buyer and the referring partner
// for the paginated admin view.
type PurchaseListItem struct {
	Purchase
	Username        string
	FirstName       string
	LastName        string
	RefPartnerCode  string
	PartnerUsername string
}

// ReferralPurchase is a purchase made by a user attributed to a partner.
type ReferralPurchase struct {
	Purchase
	Username  string
	FirstName string
	LastName  string
}
