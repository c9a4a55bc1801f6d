package engine

import "errors"

var (
	NotExist = errors.New("Not Exist")
	ErrKey   = errors.New("key does not name a file")
)

// DB is a flat store of file contents keyed by their request path.
type DB interface {
	Close() error
	NewBatch() (Batch, error)

	Del([]byte) error
	Set([]byte, []byte) error
	Get([]byte) ([]byte, error)
}

type Batch interface {
	Cancel() error
	Commit() error
	Del([]byte) error
	Set([]byte, []byte) error
}
