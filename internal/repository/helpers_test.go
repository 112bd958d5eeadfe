package repository_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/teamboard/api/internal/database"
)

var dbSeq atomic.Int64

// testDB opens a fresh named in-memory database so tests never share
// state.
func testDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", dbSeq.Add(1))

	db, err := database.Connect(dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, database.Migrate(context.Background(), db))

	return db
}
