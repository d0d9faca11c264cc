package wallet

import (
	"strings"
	"unicode"
)

const (
	minPasswordLength = 8
	minPasswordScore  = 4
	passwordSpecials  = `!@#$%^&*(),.?":{}|<>`
)

type PasswordStrength struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
	IsValid  bool     `json:"isValid"`
}

// CheckPasswordStrength scores a password one point per satisfied rule.
// Five rules, valid from four.
func CheckPasswordStrength(password string) PasswordStrength {
	var (
		res                              PasswordStrength
		lower, upper, digit, specialChar bool
	)

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			specialChar = true
		}
	}

	check := func(ok bool, hint string) {
		if ok {
			res.Score++
			return
		}
		res.Feedback = append(res.Feedback, hint)
	}
	check(len([]rune(password)) >= minPasswordLength, "Password should be at least 8 characters long")
	check(lower, "Add lowercase letters")
	check(upper, "Add uppercase letters")
	check(digit, "Add numbers")
	check(specialChar, "Add special characters")

	res.IsValid = res.Score >= minPasswordScore
	return res
}
