// Package filewatch reports changes to the files a presentation is built
// from, so decks can be re-rendered while they are edited.
package filewatch

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
)

// ChangeType describes the kind of file change observed.
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

const defaultDebounce = 100 * time.Millisecond

// ErrNotWatching is returned by Run when no path has been added.
var ErrNotWatching = errors.New("filewatch: no paths being watched")

// FileChange records one settled change to a file.
type FileChange struct {
	Path string
	Type ChangeType
	At   time.Time
}

// FileChangeHandler receives file change notifications.
type FileChangeHandler func(change FileChange)

// Subscription binds a pattern to a handler.
type Subscription struct {
	ID      string
	Pattern string
	Handler FileChangeHandler
}

// FileWatcher turns filesystem events into debounced change notifications.
// Bursts of events for one path, as editors produce when saving, are
// delivered as a single change once the path has been quiet for the
// debounce interval.
type FileWatcher struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	watched       map[string]bool
}

// NewFileWatcher creates a watcher. A non-positive debounce uses the
// default interval.
func NewFileWatcher(debounce time.Duration) *FileWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &FileWatcher{
		subscriptions: make(map[string]*Subscription),
		debounce:      debounce,
		watched:       make(map[string]bool),
	}
}

// Subscribe registers a file change handler for a glob pattern. Patterns
// without a slash match against the file's base name.
func (fw *FileWatcher) Subscribe(pattern string, handler FileChangeHandler) string {
	if fw == nil || handler == nil {
		return ""
	}
	id := ulid.Make().String()
	sub := &Subscription{
		ID:      id,
		Pattern: strings.TrimSpace(pattern),
		Handler: handler,
	}
	fw.mu.Lock()
	fw.subscriptions[id] = sub
	fw.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription.
func (fw *FileWatcher) Unsubscribe(id string) {
	if fw == nil || strings.TrimSpace(id) == "" {
		return
	}
	fw.mu.Lock()
	delete(fw.subscriptions, id)
	fw.mu.Unlock()
}

// Notify publishes a file change to every matching subscription.
func (fw *FileWatcher) Notify(change FileChange) {
	if fw == nil {
		return
	}
	fw.mu.RLock()
	subs := make([]*Subscription, 0, len(fw.subscriptions))
	for _, sub := range fw.subscriptions {
		subs = append(subs, sub)
	}
	fw.mu.RUnlock()

	for _, sub := range subs {
		if matchesPattern(sub.Pattern, change.Path) {
			sub.Handler(change)
		}
	}
}

// Watch starts watching the given files. The parent directory of each file
// is watched so that saves which replace the file are still seen.
func (fw *FileWatcher) Watch(paths ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		fw.watcher = w
	}
	for _, p := range paths {
		dir := filepath.Dir(filepath.Clean(p))
		if fw.watched[dir] {
			continue
		}
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		fw.watched[dir] = true
	}
	return nil
}

// Run delivers changes until ctx is cancelled or the underlying watcher
// fails. It closes the watcher on return.
func (fw *FileWatcher) Run(ctx context.Context) error {
	fw.mu.RLock()
	w := fw.watcher
	fw.mu.RUnlock()
	if w == nil {
		return ErrNotWatching
	}
	defer fw.Close()

	pending := make(map[string]FileChange)
	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			kind := changeType(ev.Op)
			if kind == "" {
				continue
			}
			name := filepath.Clean(ev.Name)
			pending[name] = FileChange{Path: name, Type: kind, At: time.Now()}
			timer.Reset(fw.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)

		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				fw.Notify(pending[name])
			}
			clear(pending)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.watcher == nil {
		return nil
	}
	err := fw.watcher.Close()
	fw.watcher = nil
	clear(fw.watched)
	return err
}

func changeType(op fsnotify.Op) ChangeType {
	switch {
	case op.Has(fsnotify.Create):
		return ChangeCreated
	case op.Has(fsnotify.Write):
		return ChangeModified
	case op.Has(fsnotify.Remove):
		return ChangeDeleted
	case op.Has(fsnotify.Rename):
		return ChangeRenamed
	default:
		return ""
	}
}

func matchesPattern(pattern, filePath string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || pattern == "*" {
		return true
	}
	cleanPath := filepath.ToSlash(strings.TrimSpace(filePath))
	cleanPattern := filepath.ToSlash(pattern)
	if ok, _ := path.Match(cleanPattern, cleanPath); ok {
		return true
	}
	if !strings.Contains(cleanPattern, "/") {
		base := path.Base(cleanPath)
		if ok, _ := path.Match(cleanPattern, base); ok {
			return true
		}
	}
	return false
}
