package user

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailExists      = errors.New("email already registered in this organization")
	ErrCannotDeactivateSelf = errors.New("cannot change your own account status")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
	ErrSamePassword         = errors.New("new password must differ from the current password")
)
