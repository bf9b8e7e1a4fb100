package handlers

import (
	userapp "github.com/oksasatya/user-account-service/internal/application"
	"github.com/oksasatya/user-account-service/internal/domain/entity"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Birthday string `json:"birthday" binding:"required,isodate"`
}

func (r createUserRequest) input() userapp.UserInput {
	return userapp.UserInput{
		Name:     entity.Some(r.Name),
		Email:    entity.Some(r.Email),
		Password: entity.Some(r.Password),
		Birthday: entity.Some(userapp.BirthdayText(r.Birthday)),
	}
}

type updateUserRequest struct {
	Name      *string              `json:"name" binding:"omitempty,alphanum,min=3,max=30"`
	Email     *string              `json:"email" binding:"omitempty,email"`
	Password  *string              `json:"password"`
	Birthday  *string              `json:"birthday" binding:"omitempty,isodate"`
	IsBlocked *userapp.BlockedFlag `json:"isBlocked"`
}

func (r updateUserRequest) input() userapp.UserInput {
	in := userapp.UserInput{
		Name:      entity.FromPtr(r.Name),
		Email:     entity.FromPtr(r.Email),
		Password:  entity.FromPtr(r.Password),
		IsBlocked: entity.FromPtr(r.IsBlocked),
	}
	if r.Birthday != nil {
		in.Birthday = entity.Some(userapp.BirthdayText(*r.Birthday))
	}
	return in
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type paginationQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"min=0,max=50"`
}
