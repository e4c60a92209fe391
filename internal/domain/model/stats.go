package model

// PartnerStats counts users attributed to a partner code over nested time
// windows anchored to now. Total >= Month >= Week >= Today by construction.
type PartnerStats struct {
	Today int64
	Week  int64
	Month int64
	Total int64
}
