package util

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func TestValidateEmail(t *testing.T) {
	for i := 0; i < 20; i++ {
		email := gofakeit.Email()
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, bad := range []string{"", "plainaddress", "a@b", "@example.com", "user@.c"} {
		if ValidateEmail(bad) {
			t.Errorf("ValidateEmail(%q) = true, want false", bad)
		}
	}
}

func TestValidateRating(t *testing.T) {
	for r := 1; r <= 5; r++ {
		if !ValidateRating(r) {
			t.Errorf("ValidateRating(%d) = false", r)
		}
	}
	for _, r := range []int{-1, 0, 6} {
		if ValidateRating(r) {
			t.Errorf("ValidateRating(%d) = true", r)
		}
	}
}

func TestValidateEnums(t *testing.T) {
	if !ValidatePriority("high") || ValidatePriority("urgent") {
		t.Error("priority validation mismatch")
	}
	if !ValidateRiskTolerance("medium") || ValidateRiskTolerance("yolo") {
		t.Error("risk tolerance validation mismatch")
	}
	if !ValidateInvestmentExperience("beginner") || ValidateInvestmentExperience("guru") {
		t.Error("investment experience validation mismatch")
	}
	if !ValidateTransactionType("expense") || ValidateTransactionType("transfer") {
		t.Error("transaction type validation mismatch")
	}
	if !ValidateBudgetPeriod("monthly") || ValidateBudgetPeriod("daily") {
		t.Error("budget period validation mismatch")
	}
	if !ValidateAccountType("checking") || ValidateAccountType("piggy") {
		t.Error("account type validation mismatch")
	}
}
