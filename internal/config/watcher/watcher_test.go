package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

func (r *recorder) has(op Operation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Op == op {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func startWatcher(t *testing.T, path string, opts ...Option) (*Watcher, *recorder) {
	t.Helper()
	w := New(opts...)
	rec := &recorder{}
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w, rec
}

func TestNew(t *testing.T) {
	w := New()
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.False(t, w.IsRunning())

	w = New(WithDebounce(20*time.Millisecond), WithDebounce(-1))
	assert.Equal(t, 20*time.Millisecond, w.debounce)
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.yaml")

	w := New()
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	require.NoError(t, w.Watch(a))

	assert.Equal(t, []string{a, b}, w.WatchedFiles())
	assert.Equal(t, 2, w.dirs[dir])

	require.NoError(t, w.Unwatch(a))
	require.NoError(t, w.Unwatch(a))
	assert.Equal(t, []string{b}, w.WatchedFiles())
	assert.Equal(t, 1, w.dirs[dir])
}

func TestWatcher_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w := New()
	require.NoError(t, w.Watch(filepath.Join(dir, "settings.toml")))

	require.NoError(t, w.Start())
	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())

	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w := New()
	require.NoError(t, w.Watch(filepath.Join(t.TempDir(), "missing", "settings.toml")))
	assert.Error(t, w.Start())
	assert.False(t, w.IsRunning())
}

func TestWatcher_DetectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "a = 1\n")

	_, rec := startWatcher(t, path, WithDebounce(20*time.Millisecond))
	writeFile(t, path, "a = 2\n")

	require.Eventually(t, func() bool {
		return rec.has(OpWrite)
	}, 3*time.Second, 10*time.Millisecond)
	ev, _ := rec.last()
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_DetectsCreateAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	_, rec := startWatcher(t, path, WithDebounce(20*time.Millisecond))

	writeFile(t, path, "scroll: {}\n")
	require.Eventually(t, func() bool {
		return rec.has(OpCreate)
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return rec.has(OpRemove)
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_AtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	writeFile(t, path, "a = 1\n")

	_, rec := startWatcher(t, path, WithDebounce(50*time.Millisecond))

	tmp := filepath.Join(dir, ".settings.toml.swp")
	writeFile(t, tmp, "a = 2\n")
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 3*time.Second, 10*time.Millisecond)

	for _, ev := range rec.all() {
		assert.Equal(t, path, ev.Path)
		assert.NotEqual(t, OpRemove, ev.Op)
	}
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "a = 0\n")

	_, rec := startWatcher(t, path, WithDebounce(150*time.Millisecond))
	for i := 0; i < 5; i++ {
		writeFile(t, path, "a = 1\n")
	}

	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 3*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	writeFile(t, path, "a = 1\n")

	_, rec := startWatcher(t, path, WithDebounce(0))
	writeFile(t, filepath.Join(dir, "other.toml"), "b = 1\n")
	writeFile(t, path, "a = 2\n")

	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 3*time.Second, 10*time.Millisecond)
	for _, ev := range rec.all() {
		assert.Equal(t, path, ev.Path)
	}
}

func TestWatcher_WatchWhileRunning(t *testing.T) {
	first := filepath.Join(t.TempDir(), "a.toml")
	w, rec := startWatcher(t, first, WithDebounce(0))

	second := filepath.Join(t.TempDir(), "b.toml")
	require.NoError(t, w.Watch(second))
	writeFile(t, second, "x = 1\n")

	require.Eventually(t, func() bool {
		ev, ok := rec.last()
		return ok && ev.Path == second
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_PanickingHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "a = 1\n")

	w := New(WithDebounce(0))
	w.OnChange(func(Event) { panic("boom") })
	rec := &recorder{}
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, path, "a = 2\n")
	require.Eventually(t, func() bool {
		return len(rec.all()) > 0
	}, 3*time.Second, 10*time.Millisecond)
	assert.True(t, w.IsRunning())
}

func TestCoalesce(t *testing.T) {
	now := time.Now()
	ev := func(op Operation) Event { return Event{Path: "/x", Op: op, Time: now} }

	tests := []struct {
		prev, next Operation
		want       Operation
	}{
		{OpWrite, OpWrite, OpWrite},
		{OpCreate, OpWrite, OpCreate},
		{OpWrite, OpRemove, OpRemove},
		{OpRemove, OpCreate, OpCreate},
		{OpRename, OpWrite, OpWrite},
	}
	for _, tt := range tests {
		if got := coalesce(ev(tt.prev), ev(tt.next)).Op; got != tt.want {
			t.Errorf("coalesce(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
		}
	}
	if got := coalesce(Event{}, ev(OpWrite)); got.Op != OpWrite || got.Path != "/x" {
		t.Errorf("coalesce with empty prev = %+v", got)
	}
}

func TestSettle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	if got := settle(Event{Path: path, Op: OpWrite}).Op; got != OpRemove {
		t.Errorf("settle(missing write) = %v, want remove", got)
	}
	writeFile(t, path, "a = 1\n")
	if got := settle(Event{Path: path, Op: OpRename}).Op; got != OpWrite {
		t.Errorf("settle(existing rename) = %v, want write", got)
	}
	if got := settle(Event{Path: path, Op: OpCreate}).Op; got != OpCreate {
		t.Errorf("settle(existing create) = %v, want create", got)
	}
}
