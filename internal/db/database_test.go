package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshelf/internal/models"
)

func TestWithForeignKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file:x?_pragma=foreign_keys(1)", withForeignKeys("file:x"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "file:x?_pragma=foreign_keys(0)", withForeignKeys("file:x?_pragma=foreign_keys(0)"))
}

func TestOpen_RejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "mysql", "whatever")
	require.ErrorContains(t, err, "unsupported driver")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := Open(ctx, DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))
	require.NoError(t, Ping(ctx, gdb))

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	assert.True(t, gdb.Migrator().HasIndex(&models.Favorite{}, "idx_favorites_user_book"))
}
