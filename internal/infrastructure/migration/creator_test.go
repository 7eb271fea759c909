package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration_SequentialVersions(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create accounts", "accounts table")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.FileExists(t, first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "add index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
}

func TestCreateMigration_FileContent(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "create things", "things table")
	require.NoError(t, err)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "create things")
	assert.Contains(t, string(up), "things table")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Create Accounts", "create_accounts"},
		{"add-seller-index", "add_seller_index"},
		{"trailing space ", "trailing_space"},
		{"MiXeD123", "mixed123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeName(tt.input))
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "one", "")
	require.NoError(t, err)
	// Non-migration files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, "000001_one.down.sql", names[0])
	assert.Equal(t, "000001_one.up.sql", names[1])
}

func TestListMigrations_MissingDir(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
