package model

import "time"

// User is a bot account created on first contact. RefPartnerCode is the
// first-touch attribution and is never overwritten after creation.
type User struct {
	TgID           int64
	Username       string
	FirstName      string
	LastName       string
	IsSubscribed   bool
	RegisteredAt   time.Time
	RefPartnerCode string
}

// UserListItem is a user row joined with the referring partner's username
// for the admin list and search views.
type UserListItem struct {
	User
	PartnerUsername string
}
