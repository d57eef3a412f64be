//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo     *Container
	sharedMongoErr  error
	sharedMongoOnce sync.Once
)

// SharedMongoDB starts the package-wide MongoDB container on first use.
func SharedMongoDB(ctx context.Context) (*Container, error) {
	sharedMongoOnce.Do(func() {
		sharedMongo, sharedMongoErr = StartMongoDB(ctx)
	})
	return sharedMongo, sharedMongoErr
}

// SetupTestMainWithMongoDB runs m against a shared MongoDB container:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	container, err := SharedMongoDB(ctx)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		// Docker reaps the container eventually.
		fmt.Fprintf(os.Stderr, "warning: shared MongoDB cleanup: %v\n", err)
	}
	return code
}

// GetSharedContainerURI returns the connection string of the shared
// MongoDB container. It panics if SetupTestMainWithMongoDB has not run.
func GetSharedContainerURI() string {
	if sharedMongo == nil {
		panic("shared MongoDB container not started")
	}
	return sharedMongo.URI
}

var dbNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ".", "_", " ", "_", "$", "_")

// SanitizeDBName turns a test name into a unique MongoDB database name.
// MongoDB caps names at 63 bytes.
func SanitizeDBName(testName string) string {
	name := dbNameReplacer.Replace(testName)
	if len(name) > 50 {
		name = name[:50]
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1_000_000)
}
