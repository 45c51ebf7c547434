package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/voxide/engine/containers"
	"github.com/spaghettifunk/voxide/engine/core"
)

const shadersSubdir = "shaders"

// Watcher queue bound; change bursts beyond this are coalesced into
// whatever reloads are already pending.
const maxPendingChanges = 64

// AssetManager loads shader sources from the asset directory and watches
// it for changes. File system events arrive on the watcher goroutine and
// are queued; DrainChanges hands them to the context-owning thread once
// per frame.
type AssetManager struct {
	dir string

	mutex   sync.Mutex
	pending *containers.RingQueue[string]

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		pending:  containers.NewRingQueue[string](maxPendingChanges),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	am.dir = assetsDir

	shadersDir := filepath.Join(assetsDir, shadersSubdir)
	if _, err := os.Stat(shadersDir); err != nil {
		return fmt.Errorf("assets initialize: %w", err)
	}
	if err := am.fsnotify.Add(shadersDir); err != nil {
		return err
	}

	go am.watch()
	return nil
}

// LoadShaderSource reads the vertex and fragment sources for the named
// shader from <assets>/shaders/<name>.vert and .frag.
func (am *AssetManager) LoadShaderSource(name string) (vertex string, fragment string, err error) {
	vertPath := filepath.Join(am.dir, shadersSubdir, name+".vert")
	fragPath := filepath.Join(am.dir, shadersSubdir, name+".frag")

	v, err := os.ReadFile(vertPath)
	if err != nil {
		return "", "", fmt.Errorf("load shader %q: %w", name, err)
	}
	f, err := os.ReadFile(fragPath)
	if err != nil {
		return "", "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(v), string(f), nil
}

// DrainChanges returns the names of shaders whose sources changed since
// the previous call. Call once per frame from the context-owning thread.
func (am *AssetManager) DrainChanges() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	var names []string
	seen := make(map[string]bool)
	for !am.pending.IsEmpty() {
		name, err := am.pending.Dequeue()
		if err != nil {
			break
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	return am.fsnotify.Close()
}

func (am *AssetManager) watch() {
	for {
		select {
		case <-am.done:
			return
		case event, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, ok := shaderName(event.Name)
			if !ok {
				continue
			}
			am.mutex.Lock()
			if err := am.pending.Enqueue(name); err != nil {
				core.LogWarn("asset watcher: dropping change for %q: %s", name, err)
			}
			am.mutex.Unlock()
		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)
		}
	}
}

func shaderName(path string) (string, bool) {
	ext := filepath.Ext(path)
	if ext != ".vert" && ext != ".frag" {
		return "", false
	}
	return strings.TrimSuffix(filepath.Base(path), ext), true
}
