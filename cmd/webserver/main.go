package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepfabric/webcache/pkg/cache"
	"github.com/deepfabric/webcache/pkg/engine"
	"github.com/deepfabric/webcache/pkg/engine/bg"
	"github.com/deepfabric/webcache/pkg/engine/local"
	"github.com/deepfabric/webcache/pkg/engine/oss"
	"github.com/deepfabric/webcache/pkg/engine/pb"
	"github.com/deepfabric/webcache/pkg/server"
)

const (
	shutdownTimeout = 5 * time.Second
)

var (
	addr      = flag.String("addr", ":3490", "listen address")
	root      = flag.String("root", "./serverroot", "directory served by the local engine")
	files     = flag.String("files", "./serverfiles", "directory with the server's own pages")
	kind      = flag.String("engine", "local", "storage engine: local, pebble, badger or oss")
	dir       = flag.String("dir", "./data", "data directory of the pebble and badger engines")
	cacheSize = flag.Int("cache-size", 10, "maximum number of cached files")
	hashSize  = flag.Int("hash-size", 0, "initial index size, 0 for the default")
	rps       = flag.Float64("rate", 0, "requests per second, 0 for unlimited")
	burst     = flag.Int("burst", 16, "rate limiter burst")
	imp       = flag.String("import", "", "copy this directory into the engine and exit")

	ossEndpoint = flag.String("oss-endpoint", "", "oss endpoint")
	ossBucket   = flag.String("oss-bucket", "", "oss bucket")
	ossPrefix   = flag.String("oss-prefix", "", "oss object key prefix")
	ossKeyID    = flag.String("oss-key-id", "", "oss access key id, defaults to $OSS_ACCESS_KEY_ID")
	ossSecret   = flag.String("oss-key-secret", "", "oss access key secret, defaults to $OSS_ACCESS_KEY_SECRET")
)

func main() {
	flag.Parse()
	rand.Seed(time.Now().UnixNano())
	if err := run(); err != nil {
		log.Fatalf("[webserver] %v", err)
	}
}

// run owns every resource it opens, so the deferred closes run before main exits.
func run() error {
	db, err := open(*kind)
	if err != nil {
		return fmt.Errorf("open %s engine: %v", *kind, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[webserver] close %s engine: %v", *kind, err)
		}
	}()

	if len(*imp) > 0 {
		n, err := engine.Import(db, *imp)
		if err != nil {
			return fmt.Errorf("import %s: %v", *imp, err)
		}
		log.Printf("[webserver] imported %d files from %s", n, *imp)
		return nil
	}

	c, err := cache.New(*cacheSize, *hashSize)
	if err != nil {
		return fmt.Errorf("cache: %v", err)
	}
	defer func() {
		log.Printf("[webserver] released %d cached files", c.Free())
	}()

	h, err := server.New(server.Config{Files: *files, Rate: *rps, Burst: *burst}, c, db)
	if err != nil {
		return err
	}
	l, err := net.Listen("tcp", *addr)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Printf("[webserver] %s engine, %d cache entries, waiting for connections on %s", *kind, *cacheSize, l.Addr())
	return serve(ctx, &http.Server{Handler: h}, l)
}

// serve runs srv on l until ctx is done. It returns only once Shutdown has
// drained the in-flight requests, which still use the cache and the engine.
func serve(ctx context.Context, srv *http.Server, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		done <- srv.Shutdown(sctx)
	}()
	err := srv.Serve(l)
	cancel()
	serr := <-done
	if err != http.ErrServerClosed {
		return err
	}
	return serr
}

func open(kind string) (engine.DB, error) {
	switch kind {
	case "local":
		return local.New(*root)
	case "pebble":
		return pb.New(*dir, nil, true)
	case "badger":
		return bg.New(*dir)
	case "oss":
		return oss.New(&oss.Config{
			Endpoint:        *ossEndpoint,
			Bucket:          *ossBucket,
			Prefix:          *ossPrefix,
			AccessKeyID:     env(*ossKeyID, "OSS_ACCESS_KEY_ID"),
			AccessKeySecret: env(*ossSecret, "OSS_ACCESS_KEY_SECRET"),
		})
	}
	return nil, fmt.Errorf("unknown engine %q", kind)
}

func env(v, name string) string {
	if len(v) > 0 {
		return v
	}
	return os.Getenv(name)
}
