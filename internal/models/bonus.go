package models

import "time"

// BonusCode is a single-use promotional credit keyed by its code string.
type BonusCode struct {
	Code        string
	Value       float64
	Description string
	CreatedAt   time.Time
	ExpiryDate  *time.Time
	Used        bool
	UsedAt      *time.Time
}

// Expired reports whether the code's expiry (if any) lies before now.
func (b BonusCode) Expired(now time.Time) bool {
	return b.ExpiryDate != nil && now.After(*b.ExpiryDate)
}
