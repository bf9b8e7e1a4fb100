package application

import (
	pj "github.com/oksasatya/user-account-service/internal/domain/projection"
)

// userDefaultPolicy is used by every user service read and write-back.
var userDefaultPolicy = pj.Read(map[pj.Field]bool{
	pj.FieldID:        true,
	pj.FieldName:      true,
	pj.FieldEmail:     true,
	pj.FieldPassword:  false,
	pj.FieldBirthday:  true,
	pj.FieldIsBlocked: true,
	pj.FieldCreatedAt: false,
	pj.FieldUpdatedAt: false,
})

// userCreatePolicy shapes the registration response: isBlocked is hidden, and
// anything not listed is dropped.
var userCreatePolicy = pj.Response(userDefaultPolicy.Rules()).With(pj.FieldIsBlocked, false)

// authDefaultPolicy hides the birthday; login overrides it.
var authDefaultPolicy = pj.Read(map[pj.Field]bool{
	pj.FieldID:        true,
	pj.FieldName:      true,
	pj.FieldEmail:     true,
	pj.FieldPassword:  false,
	pj.FieldBirthday:  false,
	pj.FieldIsBlocked: true,
	pj.FieldCreatedAt: false,
	pj.FieldUpdatedAt: false,
})

// loginLookupPolicy reads the hash for verification.
var loginLookupPolicy = authDefaultPolicy.
	With(pj.FieldPassword, true).
	With(pj.FieldBirthday, true)

// loginResponsePolicy strips the hash again before the user leaves the service.
var loginResponsePolicy = loginLookupPolicy.With(pj.FieldPassword, false)
