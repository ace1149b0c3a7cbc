package util

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateRating accepts whole-star ratings from 1 to 5.
func ValidateRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func ValidatePriority(priority string) bool {
	switch priority {
	case "low", "medium", "high":
		return true
	}
	return false
}

func ValidateRiskTolerance(risk string) bool {
	switch risk {
	case "low", "medium", "high":
		return true
	}
	return false
}

func ValidateInvestmentExperience(level string) bool {
	switch level {
	case "beginner", "intermediate", "advanced":
		return true
	}
	return false
}

func ValidateTransactionType(txnType string) bool {
	return txnType == "income" || txnType == "expense"
}

func ValidateBudgetPeriod(period string) bool {
	switch period {
	case "weekly", "monthly", "yearly":
		return true
	}
	return false
}

func ValidateAccountType(accountType string) bool {
	switch accountType {
	case "checking", "savings", "credit", "investment", "cash", "loan", "depository", "other":
		return true
	}
	return false
}
