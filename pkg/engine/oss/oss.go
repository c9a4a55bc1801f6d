package oss

import (
	"bytes"
	"io/ioutil"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/deepfabric/webcache/pkg/engine"
)

// New binds a store to one bucket. No request is sent until the first call.
func New(cfg *Config) (*alioss, error) {
	if len(cfg.Bucket) == 0 {
		return nil, ErrBucket
	}
	cli, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}
	bkt, err := cli.Bucket(cfg.Bucket)
	if err != nil {
		return nil, err
	}
	return &alioss{strings.Trim(cfg.Prefix, "/"), cli, bkt}, nil
}

func (_ *alioss) Close() error {
	return nil
}

func (a *alioss) Del(k []byte) error {
	key, err := a.key(k)
	if err != nil {
		return err
	}
	return a.bkt.DeleteObject(key)
}

func (a *alioss) Set(k, v []byte) error {
	key, err := a.key(k)
	if err != nil {
		return err
	}
	return a.bkt.PutObject(key, bytes.NewReader(v))
}

func (a *alioss) Get(k []byte) ([]byte, error) {
	key, err := a.key(k)
	if err != nil {
		return nil, engine.NotExist
	}
	body, err := a.bkt.GetObject(key)
	if err != nil {
		if e, ok := err.(oss.ServiceError); ok {
			switch e.StatusCode {
			case 403, 404:
				return nil, engine.NotExist
			}
		}
		return nil, err
	}
	defer body.Close()
	return ioutil.ReadAll(body)
}

func (a *alioss) NewBatch() (engine.Batch, error) {
	return &batch{a: a}, nil
}

// key turns a request path into an object key; object keys never start with "/".
func (a *alioss) key(k []byte) (string, error) {
	k, err := engine.Key(k)
	if err != nil {
		return "", err
	}
	s := string(k[1:])
	if len(a.prefix) == 0 {
		return s, nil
	}
	return a.prefix + "/" + s, nil
}

func (b *batch) Cancel() error {
	b.ops = nil
	return nil
}

func (b *batch) Commit() error {
	for _, o := range b.ops {
		var err error
		if o.del {
			err = b.a.Del(o.k)
		} else {
			err = b.a.Set(o.k, o.v)
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
