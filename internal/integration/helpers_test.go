package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// connect skips the test unless DATABASE_URL points at a scratch database.
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	require.NoError(t, err, "read migrations")
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		require.NoError(t, err)
		_, err = db.Exec(context.Background(), string(b))
		require.NoError(t, err, "apply migration %s", f.Name())
	}
}
