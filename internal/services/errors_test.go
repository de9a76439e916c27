package services

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestDuplicateKeyConflict(t *testing.T) {
	t.Parallel()

	dupErr := func(msg string) error {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: msg}}}
	}

	usernameDup := dupErr(`E11000 duplicate key error collection: tastella.users index: username_1 dup key: { username: "alice" }`)
	if got := DuplicateKeyConflict(usernameDup); got != ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", got)
	}

	emailDup := dupErr(`E11000 duplicate key error collection: tastella.users index: email_1 dup key: { email: "alice@tastella.app" }`)
	if got := DuplicateKeyConflict(emailDup); got != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", got)
	}

	// "email_1" is a legal username; the index name, not the dup key value,
	// decides which field collided.
	trickyUsername := dupErr(`E11000 duplicate key error collection: tastella.users index: username_1 dup key: { username: "email_1" }`)
	if got := DuplicateKeyConflict(trickyUsername); got != ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken for username value 'email_1', got %v", got)
	}

	if got := DuplicateKeyConflict(errors.New("connection reset")); got != nil {
		t.Fatalf("expected nil for a non-duplicate error, got %v", got)
	}
	if got := DuplicateKeyConflict(nil); got != nil {
		t.Fatalf("expected nil for nil, got %v", got)
	}
}
