package db

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesAreSortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_posts.sql":    {Data: []byte("SELECT 1")},
		"0001_listings.sql": {Data: []byte("SELECT 1")},
		"README.md":         {Data: []byte("notes")},
		"archive/0000.sql":  {Data: []byte("SELECT 1")},
	}
	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_listings.sql", "0002_posts.sql"}, files)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "accommodations_slug_key"}
	require.True(t, IsUniqueViolation(dup))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	require.Equal(t, "accommodations_slug_key", ConstraintName(fmt.Errorf("insert: %w", dup)))

	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, IsUniqueViolation(errors.New("boom")))
	require.Empty(t, ConstraintName(errors.New("boom")))
}
