package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/coocood/freecache"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// Logger receives engine diagnostics.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Warningf(string, ...interface{}) {}

// Config holds the engine settings. They are passed explicitly at
// construction; the engine keeps no process-wide state.
type Config struct {
	// Verbose logs every attribute lookup that falls back to a default.
	Verbose bool

	// Strict fails Open when a dataset cannot be decoded, instead of
	// failing the first read of that dataset.
	Strict bool

	// CacheBytes sizes the decoded-chunk cache. Zero disables it.
	CacheBytes int

	// Workers limits concurrent chunk decodes per read. Zero means
	// GOMAXPROCS.
	Workers int

	Logger Logger
}

// DefaultConfig returns the settings used by a zero-configuration engine.
func DefaultConfig() Config {
	return Config{CacheBytes: 32 << 20}
}

// Engine opens containers from memory, buckets and the filesystem.
type Engine struct {
	cfg   Config
	log   Logger
	cache *freecache.Cache

	mu      sync.Mutex
	mem     map[string]*File
	buckets map[string]*blob.Bucket
}

// New creates an engine.
func New(cfg Config) *Engine {
	e := &Engine{
		cfg:     cfg,
		log:     cfg.Logger,
		mem:     make(map[string]*File),
		buckets: make(map[string]*blob.Bucket),
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	if cfg.CacheBytes > 0 {
		e.cache = freecache.NewCache(cfg.CacheBytes)
	}
	return e
}

// Config returns the engine settings.
func (e *Engine) Config() Config { return e.cfg }

// Register makes f openable at path without touching storage.
func (e *Engine) Register(path string, f *File) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mem[path] = f
}

// Open opens the container at path for reading.
func (e *Engine) Open(path string) (Handle, error) {
	return e.OpenFile(path)
}

// OpenFile is Open returning the concrete reader.
func (e *Engine) OpenFile(path string) (*Reader, error) {
	f, err := e.load(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	layoutErr := f.Walk(func(p string, obj interface{}) error {
		ds, ok := obj.(*Dataset)
		if !ok {
			return nil
		}
		if c, ok := ds.layout.(*Chunked); ok && c.Err() != nil {
			return fmt.Errorf("dataset %s: %w", p, c.Err())
		}
		return nil
	})
	if layoutErr != nil {
		if e.cfg.Strict {
			return nil, fmt.Errorf("opening %s: %w", path, layoutErr)
		}
		e.log.Warningf("%s: %v", path, layoutErr)
	}

	return &Reader{file: f, path: path, cfg: e.cfg, log: e.log, cache: e.cache}, nil
}

func (e *Engine) load(path string) (*File, error) {
	e.mu.Lock()
	f, ok := e.mem[path]
	e.mu.Unlock()
	if ok {
		return f, nil
	}

	var data []byte
	var err error
	if isURL(path) {
		data, err = e.readBlob(context.Background(), path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save serializes f to path, a filesystem path or bucket URL.
func (e *Engine) Save(path string, f *File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if isURL(path) {
		return e.writeBlob(context.Background(), path, data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Close releases the engine's open buckets.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for url, b := range e.buckets {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.buckets, url)
	}
	if e.cache != nil {
		e.cache.Clear()
	}
	return firstErr
}

// CacheStats returns the decoded-chunk cache hit and miss counts.
func (e *Engine) CacheStats() (hits, misses int64) {
	if e.cache == nil {
		return 0, 0
	}
	return e.cache.HitCount(), e.cache.MissCount()
}

func isURL(path string) bool {
	return strings.Contains(path, "://")
}

// splitBlobURL splits "scheme://bucket/dir/key" into the bucket URL and key.
func splitBlobURL(url string) (bucketURL, key string, err error) {
	scheme := strings.Index(url, "://")
	i := strings.LastIndex(url, "/")
	if i <= scheme+2 || i == len(url)-1 {
		return "", "", fmt.Errorf("%w: no object key in %q", ErrInvalidPath, url)
	}
	return url[:i], url[i+1:], nil
}

func (e *Engine) bucket(ctx context.Context, url string) (*blob.Bucket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.buckets[url]; ok {
		return b, nil
	}
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, err
	}
	e.buckets[url] = b
	return b, nil
}

func (e *Engine) readBlob(ctx context.Context, url string) ([]byte, error) {
	bucketURL, key, err := splitBlobURL(url)
	if err != nil {
		return nil, err
	}
	b, err := e.bucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return b.ReadAll(ctx, key)
}

func (e *Engine) writeBlob(ctx context.Context, url string, data []byte) error {
	bucketURL, key, err := splitBlobURL(url)
	if err != nil {
		return err
	}
	b, err := e.bucket(ctx, bucketURL)
	if err != nil {
		return err
	}
	if err := b.WriteAll(ctx, key, data, nil); err != nil {
		return fmt.Errorf("saving %s: %w", url, err)
	}
	return nil
}
