package model

import "time"

// Partner holds a referral code granted to a username. UserID stays 0 until
// that username contacts the bot itself; the link is filled once and kept.
type Partner struct {
	Code      string
	Username  string
	UserID    int64
	CreatedAt time.Time
}
