package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testTimeout = 30 * time.Second

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// TestContext returns a context with the standard test timeout.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), testTimeout)
}

func testClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		uri := os.Getenv("MONGO_TEST_URI")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			clientErr = err
			return
		}
		if err := c.Ping(ctx, nil); err != nil {
			clientErr = err
			return
		}
		client = c
	})
	return client, clientErr
}

// SetupTestDB returns a fresh, uniquely named database on the test MongoDB
// instance (MONGO_TEST_URI, default mongodb://localhost:27017) with the
// production indexes applied, and drops it when the test finishes. The
// test is skipped when no instance is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := testClient()
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}

	db := c.Database("coursehub_test_" + primitive.NewObjectID().Hex())

	ctx, cancel := TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensuring test indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
	})

	return db
}
