package local

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/deepfabric/webcache/pkg/engine"
)

func New(root string) (*local, error) {
	if err := os.MkdirAll(root, os.FileMode(0775)); err != nil {
		return nil, err
	}
	return &local{root}, nil
}

func (_ *local) Close() error {
	return nil
}

func (l *local) Del(k []byte) error {
	name, err := l.path(k)
	if err != nil {
		return err
	}
	err = os.Remove(name)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *local) Set(k, v []byte) error {
	name, err := l.path(k)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), os.FileMode(0775)); err != nil {
		return err
	}
	return ioutil.WriteFile(name, v, os.FileMode(0664))
}

func (l *local) Get(k []byte) ([]byte, error) {
	k, err := engine.GetKey(k)
	if err != nil {
		return nil, err
	}
	name := filepath.Join(l.root, filepath.FromSlash(string(k)))
	fi, err := os.Stat(name)
	switch {
	case os.IsNotExist(err):
		return nil, engine.NotExist
	case err != nil:
		return nil, err
	case fi.IsDir():
		return nil, engine.NotExist
	}
	v, err := ioutil.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, engine.NotExist
	}
	return v, err
}

func (l *local) NewBatch() (engine.Batch, error) {
	return &batch{l: l}, nil
}

// path maps a key onto the root; engine.Key already dropped any ".." that
// would climb out of it.
func (l *local) path(k []byte) (string, error) {
	k, err := engine.Key(k)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(string(k))), nil
}

func (b *batch) Cancel() error {
	b.ops = nil
	return nil
}

func (b *batch) Commit() error {
	for _, o := range b.ops {
		var err error
		if o.del {
			err = b.l.Del(o.k)
		} else {
			err = b.l.Set(o.k, o.v)
		}
		if err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

func (b *batch) Del(k []byte) error {
	b.ops = append(b.ops, op{del: true, k: k})
	return nil
}

func (b *batch) Set(k, v []byte) error {
	b.ops = append(b.ops, op{k: k, v: v})
	return nil
}
