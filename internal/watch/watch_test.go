package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"content/posts/a.md", false},
		{"content/posts/.a.md.swp", true},
		{"content/posts/a.md~", true},
		{"content/posts/#a.md#", true},
		{"static/.DS_Store", true},
		{"static/Thumbs.db", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIgnoreEvent(tt.path))
		})
	}
}

func TestWatcher_Ignored(t *testing.T) {
	root := t.TempDir()
	w := New(nil, nil, WithIgnore(filepath.Join(root, "docs")))

	assert.True(t, w.ignored(filepath.Join(root, "docs")))
	assert.True(t, w.ignored(filepath.Join(root, "docs", "index.html")))
	assert.False(t, w.ignored(filepath.Join(root, "docs2", "index.html")))
	assert.False(t, w.ignored(filepath.Join(root, "content")))
}

func TestWatcher_NothingToWatch(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, func(context.Context) error { return nil })
	require.Error(t, w.Run(context.Background()))
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	posts := filepath.Join(dir, "posts")
	require.NoError(t, os.MkdirAll(posts, 0o750))

	rebuilt := make(chan struct{}, 10)
	w := New([]string{posts}, func(context.Context) error {
		rebuilt <- struct{}{}
		return nil
	}, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Keep writing until the watcher is registered and reacts.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	i := 0
wait:
	for {
		select {
		case <-rebuilt:
			break wait
		case <-tick.C:
			i++
			require.NoError(t, os.WriteFile(filepath.Join(posts, "a.md"), []byte{byte('a' + i%26)}, 0o600))
		case <-deadline:
			t.Fatal("no rebuild after file change")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_IgnoreFileCoversTempSiblings(t *testing.T) {
	root := t.TempDir()
	w := New(nil, nil, WithIgnoreFile(filepath.Join(root, "build.prom"), ""))

	assert.True(t, w.ignored(filepath.Join(root, "build.prom")))
	assert.True(t, w.ignored(filepath.Join(root, "build.prom1234567")))
	assert.False(t, w.ignored(filepath.Join(root, "sub", "build.prom")))
	assert.False(t, w.ignored(filepath.Join(root, "blogbuilder.yaml")))
}

func TestWatcher_RelevantOnlyForWatchedInputs(t *testing.T) {
	root := t.TempDir()
	posts := filepath.Join(root, "content", "posts")
	require.NoError(t, os.MkdirAll(posts, 0o750))
	cfgFile := filepath.Join(root, "blogbuilder.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("site: {}\n"), 0o600))

	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = fw.Close() }()

	w := New(nil, nil)
	_, err = w.add(fw, posts)
	require.NoError(t, err)
	_, err = w.add(fw, cfgFile)
	require.NoError(t, err)

	assert.True(t, w.relevant(cfgFile))
	assert.True(t, w.relevant(filepath.Join(posts, "a.md")))
	assert.True(t, w.relevant(filepath.Join(posts, "drafts", "b.md")))
	assert.False(t, w.relevant(filepath.Join(root, "build.prom")))
	assert.False(t, w.relevant(filepath.Join(root, "notes.txt")))
}

func TestWatcher_SiblingOfWatchedFileDoesNotRebuild(t *testing.T) {
	root := t.TempDir()
	cfgFile := filepath.Join(root, "blogbuilder.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("a"), 0o600))

	rebuilt := make(chan struct{}, 100)
	w := New([]string{cfgFile}, func(context.Context) error {
		rebuilt <- struct{}{}
		return nil
	}, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Edit the watched file until the watcher reacts once.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	i := 0
ready:
	for {
		select {
		case <-rebuilt:
			break ready
		case <-tick.C:
			i++
			require.NoError(t, os.WriteFile(cfgFile, []byte{byte('a' + i%26)}, 0o600))
		case <-deadline:
			t.Fatal("no rebuild after editing the watched file")
		}
	}

	// Let trailing events from the edits settle, then drain.
	time.Sleep(200 * time.Millisecond)
	for len(rebuilt) > 0 {
		<-rebuilt
	}

	for j := 0; j < 5; j++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "build.prom"), []byte{byte('0' + j)}, 0o600))
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, rebuilt)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
