package kvdb

const (
	DocumentsBucket = "documents"
	// FilesBucket maps an imported file path to the document created from it.
	FilesBucket = "files"
)

var buckets = []string{DocumentsBucket, FilesBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	ForEach(bucket string, fn func(key string, value string) error) error
	Count(bucket string) (int, error)
	NextSequence(bucket string) (uint64, error)
	Close() error
}
