package application

import (
	"regexp"
	"strings"
	"time"

	"github.com/oksasatya/user-account-service/pkg/apperror"
)

const (
	MinimumAge = 18

	PasswordMinLength = 5
	PasswordMaxLength = 30
	PasswordSpecials  = "@$!%*?&_"

	MaxPageLimit = 100
)

const (
	msgUserNotFound   = "User not found"
	msgUserBlocked    = "User is blocked"
	msgEmailInUse     = "A user with this email already exists"
	msgUnderage       = "User must be at least 18 years old"
	msgCreateFailed   = "User creation failed"
	msgUpdateFailed   = "User update failed"
	msgInvalidPwd     = "Invalid password"
	msgWeakPassword   = "Password must be between 5 to 30 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	msgNameEmpty      = "Name must not be empty"
	msgFieldsRequired = "Name, email, password and birthday are required"
)

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&_]+$`)

// Age returns whole calendar years between birthday and now.
func Age(birthday, now time.Time) int {
	birthday = birthday.UTC()
	now = now.UTC()
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

func checkAge(birthday, now time.Time) error {
	if Age(birthday, now) < MinimumAge {
		return apperror.BadRequest(msgUnderage)
	}
	return nil
}

// ValidatePassword enforces length 5-30 over [A-Za-z0-9@$!%*?&_] with at least
// one upper case letter, one lower case letter, one digit and one special.
func ValidatePassword(password string) error {
	n := len(password)
	ok := n >= PasswordMinLength && n <= PasswordMaxLength &&
		passwordCharset.MatchString(password) &&
		strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
		strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") &&
		strings.ContainsAny(password, "0123456789") &&
		strings.ContainsAny(password, PasswordSpecials)
	if !ok {
		return apperror.BadRequest(msgWeakPassword)
	}
	return nil
}

// ClampLimit forces non-positive limits and anything above MaxPageLimit to MaxPageLimit.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
