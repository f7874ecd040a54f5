package testutil

import (
	"os"
	"testing"
	"time"
)

// healthWait bounds how long Setup waits for a locally started service
// to come up before failing the suite.
const healthWait = 30 * time.Second

// TestEnv points the suite at a running allocations service and its
// backing store. The defaults mirror the service's own local-dev
// defaults, so a local Mongo plus `go run ./cmd/allocations` is enough.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
}

func NewTestEnv() *TestEnv {
	env := &TestEnv{
		MongoURI:     os.Getenv("TEST_MONGO_URI"),
		DatabaseName: os.Getenv("TEST_DB_NAME"),
		ServerURL:    os.Getenv("TEST_SERVER_URL"),
	}
	if env.MongoURI == "" {
		env.MongoURI = DefaultMongoURI
	}
	if env.DatabaseName == "" {
		env.DatabaseName = DefaultDatabaseName
	}
	if env.ServerURL == "" {
		port := os.Getenv("TEST_SERVER_PORT")
		if port == "" {
			port = "8000"
		}
		env.ServerURL = "http://localhost:" + port
	}
	return env
}

// Setup connects the Mongo helper, wipes allocation data from previous
// runs and waits for the service under test to report healthy.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	client := NewClient(e.ServerURL)
	client.WaitForHealthy(t, healthWait)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}
