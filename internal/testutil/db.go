// internal/testutil/db.go

// Package testutil holds shared helpers for tests that need a real
// MongoDB instance. Tests using SetupTestDB skip automatically when no
// server is reachable, so the unit suite stays runnable anywhere.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTestURI = "mongodb://localhost:27017"

// SetupTestDB connects to the test MongoDB (RESTOK_TEST_MONGO_URI or
// localhost) and returns a database unique to this test. The database is
// dropped and the client disconnected during cleanup. Skips the test when
// no server is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("RESTOK_TEST_MONGO_URI")
	if uri == "" {
		uri = defaultTestURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb unavailable at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("mongodb unavailable at %s: %v", uri, err)
	}

	db := client.Database(fmt.Sprintf("restok_test_%d", time.Now().UnixNano()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with the standard test timeout.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
