package server

import (
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deepfabric/webcache/pkg/cache"
	"github.com/deepfabric/webcache/pkg/engine"
	"github.com/deepfabric/webcache/pkg/mime"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/time/rate"
)

func New(cfg Config, c cache.Cache, db engine.DB) (*server, error) {
	if c == nil || db == nil {
		return nil, ErrNoStore
	}
	s := &server{c: c, db: db}
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.lim = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	if len(cfg.Files) > 0 {
		name := filepath.Join(cfg.Files, NotFound)
		if data, err := ioutil.ReadFile(name); err == nil {
			s.notFound, s.nfType = data, mime.TypeOf(name)
		} else {
			log.Printf("[server] no custom 404 page: %v", err)
		}
	}
	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := uuid.NewV4().String()
	rw := &response{ResponseWriter: w, status: http.StatusOK, result: "-"}
	rw.Header().Set("X-Request-Id", id)
	defer func() {
		log.Printf("[server] %s %s %s %d %s %v", id, r.Method, r.URL.Path, rw.status, rw.result, time.Since(start))
	}()

	if s.lim != nil && !s.lim.Allow() {
		http.Error(rw, "too many requests", http.StatusTooManyRequests)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p := cleanPath(r.URL.Path)
	switch p {
	case StatsPath:
		s.stats(rw, r)
	case DicePath:
		s.d20(rw)
	default:
		s.file(rw, p)
	}
}

// cleanPath gives every spelling of a file one name, so aliases share a
// cache slot. A trailing "/" survives to select the directory index.
func cleanPath(p string) string {
	if len(p) == 0 || p[0] != '/' {
		p = "/" + p
	}
	c := path.Clean(p)
	if strings.HasSuffix(p, "/") && c != "/" {
		c += "/"
	}
	return c
}

func (s *server) d20(w http.ResponseWriter) {
	body := []byte(fmt.Sprintf("random: %d", rand.Intn(20)+1))
	send(w, http.StatusOK, "text/plain", body)
}

func (s *server) file(w *response, name string) {
	if strings.HasSuffix(name, "/") {
		name += IndexFile
	}
	if e, ok := s.c.Get(name); ok {
		w.result = "HIT"
		w.Header().Set("X-Cache", "HIT")
		send(w, http.StatusOK, e.ContentType, e.Content)
		return
	}
	w.result = "MISS"
	w.Header().Set("X-Cache", "MISS")
	data, err := s.db.Get([]byte(name))
	switch {
	case err == engine.NotExist:
		s.notFoundPage(w)
		return
	case err != nil:
		log.Printf("[server] load %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	typ := mime.TypeOf(name)
	if err := s.c.Put(name, typ, data); err != nil {
		log.Printf("[server] cache %s: %v", name, err)
	}
	send(w, http.StatusOK, typ, data)
}

func (s *server) notFoundPage(w http.ResponseWriter) {
	if s.notFound == nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}
	send(w, http.StatusNotFound, s.nfType, s.notFound)
}

// send writes a complete response; Content-Length always follows the body.
func send(w http.ResponseWriter, status int, typ string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", typ)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}

func (r *response) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
