package services

import (
	"context"
	"testing"

	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const usersNS = "tastella.users"

// useMockDB points the package's database handle at the mocked client for
// the duration of one subtest. Not safe for parallel tests.
func useMockDB(mt *mtest.T) func() {
	prev := database.DB
	database.DB = mt.Client.Database("tastella")
	return func() { database.DB = prev }
}

func userDoc(id primitive.ObjectID, username, email, password string, saved ...primitive.ObjectID) bson.D {
	ids := bson.A{}
	for _, s := range saved {
		ids = append(ids, s)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "email", Value: email},
		{Key: "password", Value: password},
		{Key: "saved_recipes", Value: ids},
	}
}

func emptyUsersFind() bson.D {
	return mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch)
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing username rejected before insert", func(mt *mtest.T) {
		defer useMockDB(mt)()

		existing := userDoc(primitive.NewObjectID(), "alice", "alice@tastella.app", "hash")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, existing))

		_, err := RegisterUser(context.Background(), "alice", "fresh@tastella.app", "pw123456")
		if err != ErrUsernameTaken {
			mt.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing email rejected before insert", func(mt *mtest.T) {
		defer useMockDB(mt)()

		existing := userDoc(primitive.NewObjectID(), "alice", "alice@tastella.app", "hash")
		mt.AddMockResponses(
			emptyUsersFind(), // username check
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, existing),
		)

		_, err := RegisterUser(context.Background(), "bob", "alice@tastella.app", "pw123456")
		if err != ErrEmailTaken {
			mt.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})
}

// A concurrent register can pass both pre-checks and lose the insert race;
// the unique index violation must still map to the right conflict error.
func TestRegisterUserInsertRace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate username index", func(mt *mtest.T) {
		defer useMockDB(mt)()

		mt.AddMockResponses(
			emptyUsersFind(),
			emptyUsersFind(),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: `E11000 duplicate key error collection: tastella.users index: username_1 dup key: { username: "alice" }`,
			}),
		)

		_, err := RegisterUser(context.Background(), "alice", "alice@tastella.app", "pw123456")
		if err != ErrUsernameTaken {
			mt.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})

	mt.Run("duplicate email index", func(mt *mtest.T) {
		defer useMockDB(mt)()

		mt.AddMockResponses(
			emptyUsersFind(),
			emptyUsersFind(),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: `E11000 duplicate key error collection: tastella.users index: email_1 dup key: { email: "alice@tastella.app" }`,
			}),
		)

		_, err := RegisterUser(context.Background(), "alice", "alice@tastella.app", "pw123456")
		if err != ErrEmailTaken {
			mt.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestAuthenticateUserUnknownUsername(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown username is not a credential failure", func(mt *mtest.T) {
		defer useMockDB(mt)()

		mt.AddMockResponses(emptyUsersFind())

		_, err := AuthenticateUser(context.Background(), "nobody", "whatever")
		if err != ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAuthenticateUserWrongPassword(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	hash, err := utils.HashPassword("open-sesame")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	mt.Run("wrong password for an existing user", func(mt *mtest.T) {
		defer useMockDB(mt)()

		doc := userDoc(primitive.NewObjectID(), "alice", "alice@tastella.app", hash)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, doc))

		_, err := AuthenticateUser(context.Background(), "alice", "not-the-password")
		if err != ErrBadCredentials {
			mt.Fatalf("expected ErrBadCredentials, got %v", err)
		}
	})

	mt.Run("correct password", func(mt *mtest.T) {
		defer useMockDB(mt)()

		doc := userDoc(primitive.NewObjectID(), "alice", "alice@tastella.app", hash)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, doc))

		user, err := AuthenticateUser(context.Background(), "alice", "open-sesame")
		if err != nil {
			mt.Fatalf("AuthenticateUser error: %v", err)
		}
		if user.Username != "alice" {
			mt.Fatalf("unexpected user: %+v", user)
		}
	})
}
