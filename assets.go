package md2chat

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp"

	"github.com/humblebanana/md2chat/cache"
	"github.com/humblebanana/md2chat/errors"
)

// DefaultAssetTTL is how long fetched image bytes stay in the backing cache.
const DefaultAssetTTL = 24 * time.Hour

// maxImageBytes bounds a single image download.
const maxImageBytes = 10 << 20

// Assets loads product images for cards. Decoded images are kept in memory
// for the life of the Assets value; raw bytes go to the backing cache so
// they survive restarts when that cache is persistent.
type Assets struct {
	cache   cache.Cache
	ttl     time.Duration
	client  *http.Client
	baseDir string
	logger  *log.Logger

	mu        sync.Mutex
	decoded   map[string]image.Image
	resolvers map[string]imageResolver
}

type imageResolver func(dest string) (key string, fetch func(ctx context.Context) ([]byte, error), err error)

// AssetOption configures Assets.
type AssetOption func(*Assets)

// WithCache sets the byte cache. The default is an in-memory cache.
func WithCache(c cache.Cache) AssetOption { return func(a *Assets) { a.cache = c } }

// WithTTL sets the expiry of cached image bytes.
func WithTTL(ttl time.Duration) AssetOption { return func(a *Assets) { a.ttl = ttl } }

// WithHTTPClient sets the client used for remote images.
func WithHTTPClient(c *http.Client) AssetOption { return func(a *Assets) { a.client = c } }

// WithBaseDir resolves relative image paths against dir.
func WithBaseDir(dir string) AssetOption { return func(a *Assets) { a.baseDir = dir } }

// WithLogger sets the logger for fetch failures.
func WithLogger(l *log.Logger) AssetOption { return func(a *Assets) { a.logger = l } }

// NewAssets returns an asset loader.
func NewAssets(opts ...AssetOption) *Assets {
	a := &Assets{
		ttl:     DefaultAssetTTL,
		decoded: make(map[string]image.Image),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = cache.NewMemoryCache()
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: 15 * time.Second}
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	a.resolvers = map[string]imageResolver{
		"":      a.resolveLocal,
		"file":  a.resolveLocal,
		"http":  a.resolveRemote,
		"https": a.resolveRemote,
	}
	return a
}

// Image returns the decoded image at src, a URL or a file path.
func (a *Assets) Image(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty image source")
	}
	scheme := ""
	if idx := strings.Index(src, "://"); idx != -1 {
		scheme = strings.ToLower(src[:idx])
	}
	resolver, ok := a.resolvers[scheme]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported image scheme: %s", scheme)
	}
	key, fetch, err := resolver(src)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	img, ok := a.decoded[key]
	a.mu.Unlock()
	if ok {
		return img, nil
	}

	data, hit, err := a.cache.Get(ctx, cache.ImageKey(key))
	if err != nil {
		a.logger.Warn("asset cache read failed", "src", src, "err", err)
	}
	if !hit {
		data, err = fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := a.cache.Set(ctx, cache.ImageKey(key), data, a.ttl); err != nil {
			a.logger.Warn("asset cache write failed", "src", src, "err", err)
		}
	}

	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		_ = a.cache.Delete(ctx, cache.ImageKey(key))
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image %s", src)
	}

	a.mu.Lock()
	a.decoded[key] = img
	a.mu.Unlock()
	a.logger.Debug("loaded image", "src", src, "cached", hit)
	return img, nil
}

// Invalidate drops one source from memory and from the backing cache.
func (a *Assets) Invalidate(ctx context.Context, src string) error {
	scheme := ""
	if idx := strings.Index(src, "://"); idx != -1 {
		scheme = strings.ToLower(src[:idx])
	}
	key := strings.TrimSpace(src)
	if resolver, ok := a.resolvers[scheme]; ok {
		if k, _, err := resolver(key); err == nil {
			key = k
		}
	}
	a.mu.Lock()
	delete(a.decoded, key)
	a.mu.Unlock()
	return a.cache.Delete(ctx, cache.ImageKey(key))
}

// Reset drops every decoded image. The backing cache is left alone.
func (a *Assets) Reset() {
	a.mu.Lock()
	a.decoded = make(map[string]image.Image)
	a.mu.Unlock()
}

// Len returns the number of decoded images held in memory.
func (a *Assets) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.decoded)
}

// Close releases the backing cache.
func (a *Assets) Close() error {
	return a.cache.Close()
}

func (a *Assets) resolveLocal(dest string) (string, func(context.Context) ([]byte, error), error) {
	path := strings.TrimPrefix(strings.TrimSpace(dest), "file://")
	if !filepath.IsAbs(path) {
		if base := strings.TrimSpace(a.baseDir); base != "" {
			path = filepath.Join(base, path)
		}
	}
	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		if abs, err := filepath.Abs(cleaned); err == nil {
			cleaned = abs
		}
	}
	fetch := func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(cleaned)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", cleaned)
		}
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", cleaned, err)
		}
		return data, nil
	}
	return cleaned, fetch, nil
}

func (a *Assets) resolveRemote(dest string) (string, func(context.Context) ([]byte, error), error) {
	url := strings.TrimSpace(dest)
	fetch := func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "image url %s", url)
		}
		resp, err := a.client.Do(req)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch image %s", url)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.New(errors.ErrCodeNetwork, "fetch image %s: %s", url, resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read image %s", url)
		}
		return data, nil
	}
	return url, fetch, nil
}
