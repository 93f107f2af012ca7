package account

import "errors"

type User struct {
	ID       int64
	FullName string
	Email    string
	Password string
}

type UserInput struct {
	FullName string
	Email    string
	Password string
}

var ErrUserNotFound = errors.New("user not found")
