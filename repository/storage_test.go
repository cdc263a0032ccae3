package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"storefront/models"
)

// exerciseStorage runs the shared get/set/remove contract against s
func exerciseStorage(t *testing.T, s StorageInterface) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.GetItem(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report not found")

	require.NoError(t, s.SetItem(ctx, "storefront:cart", `[{"id":1}]`))
	value, ok, err := s.GetItem(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, value)

	require.NoError(t, s.SetItem(ctx, "storefront:cart", `[]`))
	value, ok, err = s.GetItem(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value, "set should overwrite")

	require.NoError(t, s.RemoveItem(ctx, "storefront:cart"))
	_, ok, err = s.GetItem(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RemoveItem(ctx, "never-set"), "removing a missing key is not an error")
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	exerciseStorage(t, s)

	require.NoError(t, s.Close())
	err := s.SetItem(context.Background(), "k", "v")
	assert.True(t, errors.Is(err, models.ErrStorageClosed))
}

func TestFileStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	exerciseStorage(t, s)
	require.NoError(t, s.Close())
}

func TestFileStorage_KeysStayInsideDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.SetItem(context.Background(), "../escape/key", "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "..")
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape"))
	assert.True(t, os.IsNotExist(err))

	value, ok, err := s.GetItem(context.Background(), "../escape/key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, first.SetItem(context.Background(), "storefront:cart", "[]"))

	second, err := NewFileStorage(dir)
	require.NoError(t, err)
	value, ok, err := second.GetItem(context.Background(), "storefront:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestSQLStorage_SQLite(t *testing.T) {
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// :memory: databases are per connection
	conn.SetMaxOpenConns(1)

	s, err := NewSQLStorage(conn, DialectSQLite)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()), "schema creation is idempotent")

	exerciseStorage(t, s)
	require.NoError(t, s.Close())
}

func TestNewSQLStorage_RejectsUnknownDialect(t *testing.T) {
	_, err := NewSQLStorage(nil, "mysql")
	assert.Error(t, err)
}

func TestSQLStorage_PostgresQueries(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	s, err := NewSQLStorage(conn, DialectPostgres)
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT item_value FROM kv_storage WHERE item_key = $1`)).
		WithArgs("storefront:cart").
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}).AddRow(`[]`))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_storage (item_key, item_value, updated_at)`)+
		`\s+`+regexp.QuoteMeta(`VALUES ($1, $2, CURRENT_TIMESTAMP)`)).
		WithArgs("storefront:cart", `[{"id":2}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_storage WHERE item_key = $1`)).
		WithArgs("storefront:cart").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT item_value FROM kv_storage WHERE item_key = $1`)).
		WithArgs("storefront:cart").
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}))

	value, ok, err := s.GetItem(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)

	require.NoError(t, s.SetItem(ctx, "storefront:cart", `[{"id":2}]`))
	require.NoError(t, s.RemoveItem(ctx, "storefront:cart"))

	_, ok, err = s.GetItem(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_PostgresErrorsAreWrapped(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	s, err := NewSQLStorage(conn, DialectPostgres)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_storage`)).WillReturnError(boom)

	err = s.SetItem(context.Background(), "storefront:cart", "[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// setupTestRedis creates a miniredis instance and a client bound to it
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStorage(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisStorageFromClient(client)

	exerciseStorage(t, s)

	require.NoError(t, s.SetItem(context.Background(), "storefront:cart", "[]"))
	got, err := mr.Get("storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Zero(t, mr.TTL("storefront:cart"), "cart keys do not expire")

	require.NoError(t, s.Close())
}

func TestNewRedisStorage_FromURL(t *testing.T) {
	mr, _ := setupTestRedis(t)

	s, err := NewRedisStorage(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetItem(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("k"))
}

func TestNewRedisStorage_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStorage(context.Background(), "redis://"+addr+"/0")
	assert.Error(t, err)
}
