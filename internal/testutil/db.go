// Package testutil holds shared helpers for store and handler tests:
// a throwaway Mongo database per test, domain fixtures, and HTTP helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testMongoURI returns the URI for the test Mongo instance. Override with
// PARISHHUB_TEST_MONGO_URI; defaults to a local instance.
func testMongoURI() string {
	if uri := os.Getenv("PARISHHUB_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

// SetupTestDB connects to the test Mongo instance and returns a uniquely
// named database that is dropped when the test finishes. Tests are skipped
// when no instance is reachable, so the suite still runs without Mongo.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(testMongoURI()))
	if err != nil {
		t.Skipf("skipping: cannot connect to test mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("skipping: test mongo not reachable: %v", err)
	}

	name := fmt.Sprintf("parishhub_test_%d", time.Now().UnixNano())
	db := client.Database(name)

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
	return context.WithTimeout(context.Background(), 15*time.Second)
}
