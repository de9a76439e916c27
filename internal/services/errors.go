package services

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error taxonomy surfaced to handlers. Handlers map these to status codes;
// anything else coming out of a service is a storage failure and gets a
// generic 500 without leaking driver detail.
var (
	ErrMissingToken   = errors.New("no token provided")
	ErrInvalidToken   = errors.New("invalid token")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrEmailTaken     = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("username or password is incorrect")
	ErrRecipeNotFound = errors.New("recipe not found or unauthorized")
)

// DuplicateKeyConflict maps a unique-index violation on the users collection
// to the taxonomy error for the colliding field, or nil when err is not a
// duplicate-key error. The users collection carries two unique indexes with
// the driver's default names (username_1, email_1); the server names the
// violated index in its message, which is the only place it is reported.
func DuplicateKeyConflict(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), "index: email_1") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}
