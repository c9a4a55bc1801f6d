package bg

import "github.com/dgraph-io/badger"

type store struct {
	db *badger.DB
}

// batch is one write transaction; it is discarded by Commit or Cancel.
type batch struct {
	tx *badger.Txn
}
