package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQL(t *testing.T) {
	sql := `-- header
CREATE TABLE IF NOT EXISTS a (id int);

CREATE TABLE IF NOT EXISTS b (id int);
-- trailing`
	stmts := splitSQL(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS a (id int)", stmts[0])
}

func TestExtractTablesFromMigration(t *testing.T) {
	tables, err := extractTables(filepath.Join("..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)
	assert.Equal(t, []string{"operators", "aircraft_rates", "operator_fees"}, tables)

	_, err = extractTables(filepath.Join(t.TempDir(), "none.sql"))
	assert.True(t, os.IsNotExist(err))
}
