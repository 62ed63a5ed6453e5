package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) fn(v string) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestTriggerCollapsesBurst(t *testing.T) {
	r := newRecorder()
	d := New(20*time.Millisecond, r.fn)

	d.Trigger("a")
	d.Trigger("b")
	d.Trigger("c")

	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"c"}, r.got())
	assert.False(t, d.Pending())
}

func TestCancel(t *testing.T) {
	r := newRecorder()
	d := New(20*time.Millisecond, r.fn)

	d.Trigger("a")
	require.True(t, d.Pending())
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, r.got())
}

func TestFlush(t *testing.T) {
	r := newRecorder()
	d := New(time.Hour, r.fn)

	assert.False(t, d.Flush())
	d.Trigger("x")
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"x"}, r.got())
	assert.False(t, d.Pending())
}

func TestStopIgnoresLaterTriggers(t *testing.T) {
	r := newRecorder()
	d := New(10*time.Millisecond, r.fn)

	d.Trigger("a")
	d.Stop()
	d.Trigger("b")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, r.got())
	assert.False(t, d.Pending())
}

func TestDefaultDelay(t *testing.T) {
	d := New(0, func(int) {})
	assert.Equal(t, DefaultDelay, d.delay)
}

func TestStaleTimerDoesNotFireEarly(t *testing.T) {
	r := newRecorder()
	d := New(time.Hour, r.fn)

	d.Trigger("old")
	d.mu.Lock()
	stale := d.gen
	d.mu.Unlock()
	d.Trigger("new")

	// a timer from the first Trigger that was already running
	d.fire(stale)
	assert.Empty(t, r.got())
	assert.True(t, d.Pending())

	d.mu.Lock()
	current := d.gen
	d.mu.Unlock()
	d.fire(current)
	assert.Equal(t, []string{"new"}, r.got())
	assert.False(t, d.Pending())
}

func TestStaleTimerAfterCancel(t *testing.T) {
	r := newRecorder()
	d := New(time.Hour, r.fn)

	d.Trigger("a")
	d.mu.Lock()
	gen := d.gen
	d.mu.Unlock()
	d.Cancel()
	d.Trigger("b")

	d.fire(gen)
	assert.Empty(t, r.got())
	require.True(t, d.Flush())
	assert.Equal(t, []string{"b"}, r.got())
}
