package users

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("user with that email already exists")
	ErrUsernameTaken = errors.New("user with that username already exists")
)
