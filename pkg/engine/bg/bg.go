package bg

import (
	"errors"

	"github.com/deepfabric/webcache/pkg/engine"
	"github.com/dgraph-io/badger"
)

var (
	ErrBatchDone = errors.New("badger batch already committed or cancelled")
)

// New opens a badger store for site files in dir.
func New(dir string) (engine.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = false
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &store{db}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) NewBatch() (engine.Batch, error) {
	return &batch{s.db.NewTransaction(true)}, nil
}

func (s *store) Get(path []byte) ([]byte, error) {
	k, err := engine.GetKey(path)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = s.db.View(func(tx *badger.Txn) error {
		it, err := tx.Get(k)
		if err != nil {
			return err
		}
		data, err = it.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, engine.NotExist
	}
	return data, err
}

func (s *store) Set(path, data []byte) error {
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(k, data)
	})
}

func (s *store) Del(path []byte) error {
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Delete(k)
	})
}

func (b *batch) Set(path, data []byte) error {
	if b.tx == nil {
		return ErrBatchDone
	}
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return b.tx.Set(k, data)
}

func (b *batch) Del(path []byte) error {
	if b.tx == nil {
		return ErrBatchDone
	}
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return b.tx.Delete(k)
}

func (b *batch) Commit() error {
	if b.tx == nil {
		return ErrBatchDone
	}
	tx := b.tx
	b.tx = nil
	defer tx.Discard()
	return tx.Commit()
}

func (b *batch) Cancel() error {
	if b.tx != nil {
		b.tx.Discard()
		b.tx = nil
	}
	return nil
}
