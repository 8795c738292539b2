package testutil

import (
	"context"
	"testing"

	"github.com/nhle/todoboard/internal/auth"
	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestUser registers a user with the given email and a fixed
// password, returning the stored row.
func NewTestUser(t *testing.T, s *store.SQLiteStore, email string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}

	user := model.User{Name: "Test User", Email: email, PasswordHash: hash}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	stored, err := s.GetUserByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("loading test user: %v", err)
	}
	return stored
}
