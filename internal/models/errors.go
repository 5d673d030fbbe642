package models

import "errors"

// ErrEmailExists is returned when an insert or update collides with another
// user's email.
var ErrEmailExists = errors.New("email already exists")
