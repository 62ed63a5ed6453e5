package md2chat

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblebanana/md2chat/cache"
	"github.com/humblebanana/md2chat/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{0xff, 0, 0, 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssetsLocalImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dog.png"), pngBytes(t, 8, 4), 0o644))

	a := NewAssets(WithBaseDir(dir))
	img, err := a.Image(context.Background(), "dog.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	assert.Equal(t, 1, a.Len())

	_, err = a.Image(context.Background(), "cat.png")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestAssetsRemoteUsesCache(t *testing.T) {
	var hits atomic.Int32
	body := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	ctx := context.Background()
	mem := cache.NewMemoryCache()
	a := NewAssets(WithCache(mem), WithHTTPClient(srv.Client()))

	_, err := a.Image(ctx, srv.URL+"/ok.png")
	require.NoError(t, err)
	_, err = a.Image(ctx, srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "decoded image should be reused")

	a.Reset()
	assert.Equal(t, 0, a.Len())
	_, err = a.Image(ctx, srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "bytes should come from the cache after Reset")

	require.NoError(t, a.Invalidate(ctx, srv.URL+"/ok.png"))
	_, err = a.Image(ctx, srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "Invalidate should force a refetch")

	_, err = a.Image(ctx, srv.URL+"/missing.png")
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))
}

func TestAssetsRejectsBadInput(t *testing.T) {
	a := NewAssets(WithCache(cache.NewNullCache()))

	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"empty", "  ", errors.ErrCodeInvalidInput},
		{"scheme", "ftp://host/a.png", errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Image(context.Background(), tt.src)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestAssetsUndecodable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644))

	mem := cache.NewMemoryCache()
	a := NewAssets(WithBaseDir(dir), WithCache(mem))
	_, err := a.Image(context.Background(), "bad.png")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
	assert.Equal(t, 0, mem.Len())
}

func TestScaleImageToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	got := scaleImageToFit(src, 80, 80)
	assert.Equal(t, image.Rect(0, 0, 80, 40), got.Bounds())
}
