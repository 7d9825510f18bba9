package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Validate checks the profile fields collected at signup.
func (u *User) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Field() + " is invalid"
	}
	return out
}

// Identity returns the caller view of the user.
func (u *User) Identity() Identity {
	return Identity{
		UID:         u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}
