package oss

import (
	"errors"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

var (
	ErrBucket = errors.New("oss bucket name is required")
)

type Config struct {
	Endpoint        string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	AccessKeySecret string
}

type alioss struct {
	prefix string
	cli    *oss.Client
	bkt    *oss.Bucket
}

type batch struct {
	a   *alioss
	ops []op
}

type op struct {
	del bool
	k   []byte
	v   []byte
}
