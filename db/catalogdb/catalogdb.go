package catalogdb

type DB interface {
	Index(entry Entry) error
	BuildIndex(entries []Entry) error
	Delete(id string) error
	Find(filter Filter, limit int, offset int) (*Page, error)
	GetDocCount() (uint64, error)
	Close() error
}
