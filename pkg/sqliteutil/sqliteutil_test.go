package sqliteutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv VALUES ('a', 'b')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var v string
	require.NoError(t, db.QueryRow(`SELECT v FROM kv WHERE k = 'a'`).Scan(&v))
	require.Equal(t, "b", v)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestOpenDBMemory(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
}
