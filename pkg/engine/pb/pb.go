package pb

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/deepfabric/webcache/pkg/engine"
)

var (
	ErrBatchDone = errors.New("pebble batch already committed or cancelled")
)

// New opens a pebble store for site files at dir. A nil fs means the host
// filesystem. File contents are rewritten wholesale by imports, so the WAL is
// only kept when writes are synchronous.
func New(dir string, fs vfs.FS, syncWrite bool) (engine.DB, error) {
	if fs == nil {
		fs = vfs.Default
	}
	db, err := pebble.Open(dir, &pebble.Options{FS: fs, DisableWAL: !syncWrite})
	if err != nil {
		return nil, err
	}
	return &store{db, &pebble.WriteOptions{Sync: syncWrite}}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) NewBatch() (engine.Batch, error) {
	return &batch{s, s.db.NewBatch()}, nil
}

func (s *store) Get(path []byte) ([]byte, error) {
	k, err := engine.GetKey(path)
	if err != nil {
		return nil, err
	}
	v, c, err := s.db.Get(k)
	switch {
	case err == pebble.ErrNotFound:
		return nil, engine.NotExist
	case err != nil:
		return nil, err
	}
	// v is only valid until c is closed
	data := append([]byte(nil), v...)
	return data, c.Close()
}

func (s *store) Set(path, data []byte) error {
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return s.db.Set(k, data, s.opt)
}

func (s *store) Del(path []byte) error {
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return s.db.Delete(k, s.opt)
}

func (b *batch) Set(path, data []byte) error {
	if b.bat == nil {
		return ErrBatchDone
	}
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return b.bat.Set(k, data, nil)
}

func (b *batch) Del(path []byte) error {
	if b.bat == nil {
		return ErrBatchDone
	}
	k, err := engine.Key(path)
	if err != nil {
		return err
	}
	return b.bat.Delete(k, nil)
}

func (b *batch) Commit() error {
	if b.bat == nil {
		return ErrBatchDone
	}
	err := b.s.db.Apply(b.bat, b.s.opt)
	if cerr := b.close(); err == nil {
		err = cerr
	}
	return err
}

func (b *batch) Cancel() error {
	if b.bat == nil {
		return nil
	}
	return b.close()
}

func (b *batch) close() error {
	bat := b.bat
	b.bat = nil
	return bat.Close()
}
