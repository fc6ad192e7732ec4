package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/storesync/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add sync runs", "add_sync_runs"},
		{"Add-Order-Index", "add_order_index"},
		{"add__users__table", "add_users_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := Create(dir, "add vendor slug", "Slug column for vendors")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_vendor_slug.up.sql"), first.UpPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Slug column for vendors")
	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	second, err := Create(dir, "index orders", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	_, err := Create(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_orders.up.sql":    {},
		"000001_catalog.up.sql":   {},
		"000001_catalog.down.sql": {},
		"README.md":               {},
		"notes.sql":               {},
	}
	entries, err := List(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Version: 1, Name: "catalog", HasDown: true}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "orders", HasDown: false}, entries[1])
	assert.Equal(t, "000002_orders", entries[1].String())
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := List(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions are contiguous")
		assert.True(t, e.HasDown, "%s has no down migration", e)
	}
}
