package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/internal/buildinfo"
)

const doc = `# Puppy food

Try [product:42] today.

| Brand | Price |
|---|---|
| A | 89 |
`

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRenderPNG(t *testing.T) {
	in := writeDoc(t, doc)
	out := filepath.Join(t.TempDir(), "nested", "out.png")

	res := run(t, "", "render", in, "-o", out, "--scale", "1", "--no-images")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 374, img.Bounds().Dx())
	assert.Equal(t, 2250, img.Bounds().Dy())
}

func TestRenderJSONFromStdin(t *testing.T) {
	res := run(t, doc, "render", "-o", "-", "--format", "json")
	require.NoError(t, res.err)

	var snap struct {
		Layout []struct {
			TargetArea string `json:"targetArea"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &snap))
	require.Len(t, snap.Layout, 3)
	assert.Equal(t, "main-title", snap.Layout[0].TargetArea)
}

func TestRenderHTML(t *testing.T) {
	in := writeDoc(t, doc)
	out := filepath.Join(t.TempDir(), "out.html")

	res := run(t, "", "render", in, "-o", out, "--theme", "dark")
	require.NoError(t, res.err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `data-sku="42"`)
}

func TestRenderErrors(t *testing.T) {
	in := writeDoc(t, doc)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"format from extension", []string{"render", in, "-o", filepath.Join(dir, "out.gif")}, errors.ErrCodeInvalidFormat},
		{"bad theme", []string{"render", in, "-o", filepath.Join(dir, "x.png"), "--theme", "sepia"}, errors.ErrCodeInvalidTheme},
		{"missing input", []string{"render", filepath.Join(dir, "nope.md"), "-o", filepath.Join(dir, "x.png")}, errors.ErrCodeFileNotFound},
		{"missing config", []string{"render", in, "-c", filepath.Join(dir, "nope.toml")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.code, errors.GetCode(res.err), "got %v", res.err)
		})
	}
}

func TestRenderUsesConfigCatalog(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "md2chat.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("products:\n  - sku: \"42\"\n    title: Kibble\n    price: 59元\n"), 0o644))

	res := run(t, doc, "inspect", "-c", cfgPath)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Kibble")
	assert.Contains(t, res.stdout, "¥59")
}

func TestInspect(t *testing.T) {
	res := run(t, doc, "inspect")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Main title")
	assert.Contains(t, res.stdout, "(45,120) 280x35")
	assert.Contains(t, res.stdout, "2 columns, 1 rows")
	assert.Contains(t, res.stdout, "SKU 42")
}

func TestValidate(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		res := run(t, "# ok", "validate")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "no problems found")
	})

	t.Run("warnings", func(t *testing.T) {
		res := run(t, "#\n", "validate")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "line 1: heading text is empty")
	})

	t.Run("strict", func(t *testing.T) {
		res := run(t, "#\n", "validate", "--strict")
		assert.True(t, errors.Is(res.err, errors.ErrCodeInvalidInput))
	})
}

func TestVersion(t *testing.T) {
	res := run(t, "", "version")
	require.NoError(t, res.err)
	assert.Equal(t, buildinfo.String()+"\n", res.stdout)
}

func TestWatchNeedsOutputFile(t *testing.T) {
	res := run(t, "", "watch", writeDoc(t, doc), "-o", "-")
	assert.True(t, errors.Is(res.err, errors.ErrCodeInvalidInput))
}

func startWatch(t *testing.T, path string) (*atomic.Int32, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := &atomic.Int32{}
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, log.New(&bytes.Buffer{}), func() { changes.Add(1) })
	}()
	// let the watcher register the directory
	time.Sleep(50 * time.Millisecond)
	return changes, cancel, done
}

func TestWatchFile(t *testing.T) {
	path := writeDoc(t, "one")
	changes, cancel, done := startWatch(t, path)

	require.NoError(t, os.WriteFile(path, []byte("one two three"), 0o644))
	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchFileAtomicSave(t *testing.T) {
	path := writeDoc(t, "one")
	changes, _, _ := startWatch(t, path)

	tmp := filepath.Join(filepath.Dir(path), ".doc.md.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("saved"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	path := writeDoc(t, "one")
	changes, _, _ := startWatch(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.md"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestWatchFileMissing(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"), log.New(&bytes.Buffer{}), func() {})
	assert.Error(t, err)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		output, format, want string
	}{
		{"out.png", "", "png"},
		{"out.JPG", "", "jpg"},
		{"page.html", "", "html"},
		{"-", "json", "json"},
		{"-", "", "png"},
		{"out.png", "html", "html"},
	}
	for _, tt := range tests {
		f := renderFlags{output: tt.output, format: tt.format}
		got, err := f.resolveFormat()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "output=%s format=%s", tt.output, tt.format)
	}
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	l := log.New(&bytes.Buffer{})
	assert.Same(t, l, loggerFromContext(withLogger(context.Background(), l)))
}
