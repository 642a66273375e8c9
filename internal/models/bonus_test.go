package models

import (
	"testing"
	"time"
)

func TestBonusCodeExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	noExpiry := BonusCode{Code: "A"}
	if noExpiry.Expired(now) {
		t.Error("Code without expiry should never expire")
	}

	future := now.Add(time.Hour)
	if (BonusCode{Code: "B", ExpiryDate: &future}).Expired(now) {
		t.Error("Code expiring in the future should not be expired")
	}

	past := now.Add(-time.Hour)
	if !(BonusCode{Code: "C", ExpiryDate: &past}).Expired(now) {
		t.Error("Code with past expiry should be expired")
	}
}
