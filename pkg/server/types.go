package server

import (
	"errors"
	"net/http"

	"github.com/deepfabric/webcache/pkg/cache"
	"github.com/deepfabric/webcache/pkg/engine"
	"golang.org/x/time/rate"
)

const (
	StatsPath = "/_cache/stats"
	DicePath  = "/d20"
	IndexFile = "index.html"
	NotFound  = "404.html"
)

const (
	ProtobufType = "application/x-protobuf"
)

var (
	ErrNoStore = errors.New("server needs a cache and a db")
)

type Config struct {
	// Files holds the server's own pages, such as 404.html.
	Files string
	// Rate is the number of requests per second admitted; <= 0 disables limiting.
	Rate  float64
	Burst int
}

type server struct {
	c        cache.Cache
	db       engine.DB
	lim      *rate.Limiter
	notFound []byte
	nfType   string
}

type response struct {
	http.ResponseWriter
	status int
	result string
}
