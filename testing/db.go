package ibctesting

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cosmos/ibc-solo-machine/modules/core/store"
)

// NewTestDB returns a migrated in-memory sqlite database that is closed when
// the test finishes.
func NewTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return openTestDB(tb, "sqlite::memory:")
}

// NewTestFileDB returns a migrated sqlite database backed by a file in a
// temporary directory. Use it when several goroutines must share the database.
func NewTestFileDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return openTestDB(tb, "sqlite://"+filepath.Join(tb.TempDir(), "solo-machine.db"))
}

func openTestDB(tb testing.TB, uri string) *gorm.DB {
	tb.Helper()

	db, err := store.OpenDB(uri)
	require.NoError(tb, err)
	require.NoError(tb, store.Migrate(db))

	tb.Cleanup(func() {
		require.NoError(tb, store.CloseDB(db))
	})

	return db
}
