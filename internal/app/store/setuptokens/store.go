// internal/app/store/setuptokens/store.go

// Package setuptokens manages single-use password-setup tokens for invited
// members. A token is a random 32-byte hex value mailed to the invitee; it
// is valid until ExpiresAt and consumed (deleted) exactly once when the
// invitee completes signup.
package setuptokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// TokenLength is the token size in bytes (32 bytes = 64 hex chars).
	TokenLength = 32
	// DefaultExpiry is how long a setup token is valid.
	DefaultExpiry = 24 * time.Hour
)

var (
	// ErrNotFound is returned when no token record exists (never issued,
	// already consumed, or reaped by the TTL index).
	ErrNotFound = errors.New("setup token not found")
	// ErrExpired is returned, together with the record, when the token
	// exists but its expiry has passed. The record is left in place for
	// the TTL index to reap.
	ErrExpired = errors.New("setup token expired")
)

// Token is a pending password-setup grant.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	UID       string             `bson:"uid"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at"` // TTL index field
}

// Store manages password-setup token records.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store. If expiry is 0 or negative, DefaultExpiry is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("password_setup_tokens"),
		expiry: expiry,
	}
}

// Expiry returns the configured token lifetime.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// EnsureIndexes creates the token lookup index and the TTL index that
// reaps expired records.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_setuptokens_token").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_setuptokens_expires_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_setuptokens_uid"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create issues a new token for the given uid/email. Any earlier tokens
// for the same uid are invalidated so only the latest invite link works.
func (s *Store) Create(ctx context.Context, uid, email string) (string, error) {
	now := time.Now().UTC()

	_, _ = s.c.DeleteMany(ctx, bson.M{"uid": uid})

	tok := Token{
		ID:        primitive.NewObjectID(),
		Token:     generateToken(),
		UID:       uid,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.expiry),
	}
	if _, err := s.c.InsertOne(ctx, tok); err != nil {
		return "", fmt.Errorf("insert setup token: %w", err)
	}
	return tok.Token, nil
}

// Peek validates a token without consuming it. Returns the record when the
// token exists; an expired record is returned alongside ErrExpired so
// callers can still attribute the rejection to its uid.
func (s *Store) Peek(ctx context.Context, token string) (*Token, error) {
	var tok Token
	if err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&tok); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !time.Now().Before(tok.ExpiresAt) {
		return &tok, ErrExpired
	}
	return &tok, nil
}

// Delete removes a token record after the setup flow completes.
func (s *Store) Delete(ctx context.Context, token string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"token": token})
	return err
}

// DeleteByUID removes all tokens for a uid (account deletion cascade).
func (s *Store) DeleteByUID(ctx context.Context, uid string) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"uid": uid})
	return err
}

// generateToken produces a random setup-link token.
// Panics if the system's cryptographic random number generator fails.
func generateToken() string {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
