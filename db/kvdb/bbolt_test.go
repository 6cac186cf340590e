package kvdb

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func openTestDB(t *testing.T, assert *require.Assertions) *BoltDB {
	db, err := Open(newTestLogger(), filepath.Join(t.TempDir(), "nested", "kv.db"))
	assert.NoError(err, "could not open kv database")
	t.Cleanup(func() {
		assert.NoError(db.Close())
	})
	return db
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db := openTestDB(t, assert)

	assert.NoError(db.Set(DocumentsBucket, "a", "1"))
	value, err := db.Get(DocumentsBucket, "a")
	assert.NoError(err)
	assert.Equal("1", value)

	assert.NoError(db.Set(DocumentsBucket, "a", "2"))
	value, err = db.Get(DocumentsBucket, "a")
	assert.NoError(err)
	assert.Equal("2", value)

	assert.NoError(db.Delete(DocumentsBucket, "a"))
	_, err = db.Get(DocumentsBucket, "a")
	assert.True(errors.Is(err, ErrNotFound))
	var notFoundErr *NotFoundError
	assert.True(errors.As(err, &notFoundErr))
	assert.Equal("a", notFoundErr.Key)
}

func TestInvalidKeyAndBucket(t *testing.T) {
	assert := require.New(t)
	db := openTestDB(t, assert)

	assert.ErrorIs(db.Set(DocumentsBucket, "", "x"), ErrInvalidKey)
	_, err := db.Get(DocumentsBucket, "")
	assert.ErrorIs(err, ErrInvalidKey)
	assert.ErrorIs(db.Delete(DocumentsBucket, ""), ErrInvalidKey)

	assert.ErrorIs(db.Set("missing", "k", "v"), ErrBucketNotFound)
	_, err = db.Count("missing")
	assert.ErrorIs(err, ErrBucketNotFound)
}

func TestForEachAndCount(t *testing.T) {
	assert := require.New(t)
	db := openTestDB(t, assert)

	for _, key := range []string{"c", "a", "b"} {
		assert.NoError(db.Set(DocumentsBucket, key, key+key))
	}

	var keys []string
	err := db.ForEach(DocumentsBucket, func(key string, value string) error {
		assert.Equal(key+key, value)
		keys = append(keys, key)
		return nil
	})
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "c"}, keys)

	count, err := db.Count(DocumentsBucket)
	assert.NoError(err)
	assert.Equal(3, count)

	stop := errors.New("stop")
	visited := 0
	err = db.ForEach(DocumentsBucket, func(key string, value string) error {
		visited++
		return stop
	})
	assert.ErrorIs(err, stop)
	assert.Equal(1, visited)
}

func TestReopenKeepsData(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := Open(newTestLogger(), path)
	assert.NoError(err)
	assert.NoError(db.Set(DocumentsBucket, "persisted", "yes"))
	assert.NoError(db.Close())

	db, err = Open(newTestLogger(), path)
	assert.NoError(err)
	defer db.Close()
	value, err := db.Get(DocumentsBucket, "persisted")
	assert.NoError(err)
	assert.Equal("yes", value)
}

func TestNextSequence(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := Open(newTestLogger(), path)
	assert.NoError(err)
	for want := uint64(1); want <= 3; want++ {
		seq, err := db.NextSequence(DocumentsBucket)
		assert.NoError(err)
		assert.Equal(want, seq)
	}
	_, err = db.NextSequence("missing")
	assert.ErrorIs(err, ErrBucketNotFound)
	assert.NoError(db.Close())

	db, err = Open(newTestLogger(), path)
	assert.NoError(err)
	defer db.Close()
	seq, err := db.NextSequence(DocumentsBucket)
	assert.NoError(err)
	assert.Equal(uint64(4), seq, "the counter survives a reopen")
}
