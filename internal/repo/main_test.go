package repo_test

import (
	"os"
	"testing"

	"github.com/pkordes/walklog/backend/testutil"
)

// TestMain applies all pending migrations to the test database before any
// repo test runs, so individual tests never need to think about schema state.
// Without TEST_DATABASE_URL the tests skip themselves.
func TestMain(m *testing.M) {
	testutil.MustMigrate()
	os.Exit(m.Run())
}
