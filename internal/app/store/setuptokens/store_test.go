package setuptokens

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/restok/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCreateAndPeek(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db, time.Hour)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	raw, err := store.Create(ctx, "uid-1", "invitee@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(raw) != TokenLength*2 {
		t.Errorf("token length: got %d hex chars, want %d", len(raw), TokenLength*2)
	}

	tok, err := store.Peek(ctx, raw)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if tok.UID != "uid-1" || tok.Email != "invitee@example.com" {
		t.Errorf("token record: %+v", tok)
	}

	// Peek does not consume.
	if _, err := store.Peek(ctx, raw); err != nil {
		t.Errorf("second Peek: %v", err)
	}

	if _, err := store.Peek(ctx, "unknown-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown token: got %v, want ErrNotFound", err)
	}
}

func TestCreate_InvalidatesEarlierTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db, time.Hour)

	first, err := store.Create(ctx, "uid-1", "invitee@example.com")
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := store.Create(ctx, "uid-1", "invitee@example.com")
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	if _, err := store.Peek(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Errorf("first token should be invalidated, got %v", err)
	}
	if _, err := store.Peek(ctx, second); err != nil {
		t.Errorf("second token: %v", err)
	}
}

func TestPeek_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db, time.Hour)
	raw, err := store.Create(ctx, "uid-1", "invitee@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Backdate the expiry past the cutoff.
	_, err = db.Collection("password_setup_tokens").UpdateOne(ctx,
		bson.M{"token": raw},
		bson.M{"$set": bson.M{"expires_at": time.Now().Add(-time.Minute)}})
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	tok, err := store.Peek(ctx, raw)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expired token: got %v, want ErrExpired", err)
	}
	// The record accompanies ErrExpired so the rejection can be attributed.
	if tok == nil || tok.UID != "uid-1" {
		t.Errorf("expired record: got %+v, want uid-1", tok)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db, time.Hour)
	raw, err := store.Create(ctx, "uid-1", "invitee@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(ctx, raw); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Peek(ctx, raw); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted token: got %v, want ErrNotFound", err)
	}
}

func TestDeleteByUID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db, time.Hour)
	raw, err := store.Create(ctx, "uid-1", "invitee@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := store.Create(ctx, "uid-2", "other@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.DeleteByUID(ctx, "uid-1"); err != nil {
		t.Fatalf("DeleteByUID: %v", err)
	}
	if _, err := store.Peek(ctx, raw); !errors.Is(err, ErrNotFound) {
		t.Errorf("uid-1 token survived: %v", err)
	}
	if _, err := store.Peek(ctx, other); err != nil {
		t.Errorf("uid-2 token: %v", err)
	}
}
