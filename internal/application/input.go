package application

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/pkg/apperror"
)

// UserInput carries the user fields a caller supplied. Absent fields are untouched by updates.
type UserInput struct {
	Name      entity.Optional[string]
	Email     entity.Optional[string]
	Password  entity.Optional[string]
	Birthday  entity.Optional[Birthday]
	IsBlocked entity.Optional[BlockedFlag]
}

// Birthday is either ISO text as received or an already parsed calendar date.
type Birthday struct {
	text   string
	date   time.Time
	parsed bool
}

func BirthdayText(s string) Birthday       { return Birthday{text: s} }
func BirthdayDate(t time.Time) Birthday    { return Birthday{date: t, parsed: true} }
func (b Birthday) Date() (time.Time, bool) { return b.date, b.parsed }

// BlockedFlag is either a boolean or the raw text a client sent for it.
type BlockedFlag struct {
	text    string
	value   bool
	textual bool
}

func BlockedText(s string) BlockedFlag { return BlockedFlag{text: s, textual: true} }
func BlockedBool(v bool) BlockedFlag   { return BlockedFlag{value: v} }

// Bool reports the flag; text that was never normalized reads as false.
func (f BlockedFlag) Bool() bool {
	return !f.textual && f.value
}

// UnmarshalJSON accepts a JSON boolean or a JSON string.
func (f *BlockedFlag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = BlockedText(s)
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = BlockedBool(v)
	return nil
}

// birthdayLayouts are the ISO forms accepted for textual birthdays.
var birthdayLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseBirthday parses an ISO date or datetime. Only the calendar date as
// written is kept; a datetime's clock and offset are dropped.
func ParseBirthday(s string) (time.Time, bool) {
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// NormalizeUserInput trims text fields, lower-cases the email, parses a textual
// birthday and reads a textual isBlocked as true only for the literal "true".
// It is idempotent: normalizing its own output changes nothing.
func NormalizeUserInput(in UserInput) (UserInput, error) {
	out := in
	if v, ok := in.Name.Get(); ok {
		out.Name = entity.Some(strings.TrimSpace(v))
	}
	if v, ok := in.Email.Get(); ok {
		out.Email = entity.Some(NormalizeEmail(v))
	}
	if v, ok := in.Password.Get(); ok {
		out.Password = entity.Some(strings.TrimSpace(v))
	}
	if b, ok := in.Birthday.Get(); ok && !b.parsed {
		t, valid := ParseBirthday(strings.TrimSpace(b.text))
		if !valid {
			return UserInput{}, apperror.BadRequest("Birthday must be a valid ISO date")
		}
		out.Birthday = entity.Some(BirthdayDate(t))
	}
	if f, ok := in.IsBlocked.Get(); ok && f.textual {
		out.IsBlocked = entity.Some(BlockedBool(f.text == "true"))
	}
	return out, nil
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
