package storage

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	tu "github.com/desertthunder/reelx/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenMigrated(":memory:", 0, 0)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestStore(t *testing.T) {
	t.Run("Set then GetString", func(t *testing.T) {
		store := NewStore(setupTestDB(t), "")

		if err := store.Set("greeting", "hello"); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}

		value, ok, err := store.GetString("greeting")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok || value != "hello" {
			t.Errorf("expected (hello, true), got (%q, %v)", value, ok)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		store := NewStore(setupTestDB(t), "")

		_ = store.Set("k", "one")
		if err := store.Set("k", "two"); err != nil {
			t.Fatalf("failed to overwrite value: %v", err)
		}

		value, _, _ := store.GetString("k")
		if value != "two" {
			t.Errorf("expected two, got %s", value)
		}
	})

	t.Run("GetString missing key", func(t *testing.T) {
		store := NewStore(setupTestDB(t), "")

		value, ok, err := store.GetString("missing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok || value != "" {
			t.Errorf("expected absent value, got (%q, %v)", value, ok)
		}
	})

	t.Run("Delete and Contains", func(t *testing.T) {
		store := NewStore(setupTestDB(t), "")

		_ = store.Set("k", "v")
		if has, _ := store.Contains("k"); !has {
			t.Fatal("expected key to be present")
		}

		if err := store.Delete("k"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if has, _ := store.Contains("k"); has {
			t.Error("expected key to be gone")
		}

		if err := store.Delete("k"); err != nil {
			t.Errorf("deleting a missing key should not fail, got %v", err)
		}
	})

	t.Run("ClearAll is scoped to the namespace", func(t *testing.T) {
		db := setupTestDB(t)
		mine := NewStore(db, "reelx-storage")
		other := NewStore(db, "other")

		_ = mine.Set(TokenKey, "tok")
		_ = mine.Set("unrelated", "x")
		_ = other.Set(TokenKey, "keep")

		if err := Clear(mine); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		if has, _ := mine.Contains("unrelated"); has {
			t.Error("expected every key in the namespace to be removed")
		}
		if value, ok, _ := other.GetString(TokenKey); !ok || value != "keep" {
			t.Errorf("expected other namespace to survive, got (%q, %v)", value, ok)
		}
	})

	t.Run("closed database surfaces ErrStorage", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db, "")
		db.Close()

		if _, _, err := store.GetString("k"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
		if err := store.Set("k", "v"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})
}

func TestTokens(t *testing.T) {
	tokens := NewTokens(NewStore(setupTestDB(t), ""))

	if token, err := tokens.Get(); err != nil || token != "" {
		t.Fatalf("expected empty token, got (%q, %v)", token, err)
	}

	if err := tokens.Set("abc"); err != nil {
		t.Fatalf("failed to set token: %v", err)
	}
	if token, _ := tokens.Get(); token != "abc" {
		t.Errorf("expected abc, got %s", token)
	}
	if has, _ := tokens.Has(); !has {
		t.Error("expected token to be present")
	}

	if err := tokens.Remove(); err != nil {
		t.Fatalf("failed to remove token: %v", err)
	}
	if has, _ := tokens.Has(); has {
		t.Error("expected token to be removed")
	}

	t.Run("read failure", func(t *testing.T) {
		tokens := NewTokens(&tu.FailingKV{Err: errors.New("disk gone")})
		if _, err := tokens.Get(); err == nil {
			t.Error("expected read error to propagate")
		}
	})
}

func TestUsers(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		users := NewUsers(NewStore(setupTestDB(t), ""))
		want := &models.User{ID: "1", Username: "alice", Name: "Alice"}

		if err := users.Set(want); err != nil {
			t.Fatalf("failed to set user: %v", err)
		}

		got, err := users.Get()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || *got != *want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		users := NewUsers(NewStore(setupTestDB(t), ""))
		got, err := users.Get()
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("malformed records are treated as absent", func(t *testing.T) {
		tc := []struct {
			name string
			raw  string
		}{
			{name: "not json", raw: "{not json"},
			{name: "wrong id type", raw: `{"id":5,"username":"alice","name":"Alice"}`},
			{name: "missing username", raw: `{"id":"1","name":"Alice"}`},
			{name: "array", raw: `[1,2,3]`},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store := NewStore(setupTestDB(t), "")
				_ = store.Set(UserKey, tt.raw)

				got, err := NewUsers(store).Get()
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != nil {
					t.Errorf("expected nil user, got %+v", got)
				}
			})
		}
	})

	t.Run("Set rejects invalid users", func(t *testing.T) {
		users := NewUsers(NewStore(setupTestDB(t), ""))
		if err := users.Set(&models.User{Name: "nobody"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
