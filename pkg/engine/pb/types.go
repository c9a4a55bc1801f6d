package pb

import "github.com/cockroachdb/pebble"

type store struct {
	db  *pebble.DB
	opt *pebble.WriteOptions
}

// batch owns its pebble.Batch until Commit or Cancel closes it.
type batch struct {
	s   *store
	bat *pebble.Batch
}
