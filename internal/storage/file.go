package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/andromeda/focus/internal/osutil"
)

const fileExt = ".json"

var errCorruptEntry = errors.New("corrupt storage entry")

// envelope is the on-disk form of a value. The origin lets a FileArea skip
// notifications for its own writes.
type envelope struct {
	Origin  string `json:"origin"`
	Value   string `json:"value"`
	Written int64  `json:"written"`
}

// FileArea stores each key as a JSON file in a directory and watches the
// directory so that writes made by other processes are reported as events.
type FileArea struct {
	watcher *fsnotify.Watcher
	pending map[string]int
	done    chan struct{}
	dir     string
	origin  string
	subs    subscribers
	mu      sync.Mutex
	once    sync.Once
}

// NewFileArea opens (creating if needed) the storage directory at dir.
func NewFileArea(dir string) (*FileArea, error) {
	err := os.MkdirAll(dir, osutil.DirPermission)
	if err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating storage watcher: %w", err)
	}

	err = w.Add(dir)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching storage directory: %w", err)
	}

	a := &FileArea{
		watcher: w,
		pending: make(map[string]int),
		done:    make(chan struct{}),
		dir:     dir,
		origin:  uuid.NewString(),
	}

	go a.watchLoop()

	return a, nil
}

func (a *FileArea) Origin() string {
	return a.origin
}

func (a *FileArea) path(key string) string {
	return filepath.Join(a.dir, key+fileExt)
}

func (a *FileArea) read(key string) (envelope, bool, error) {
	var env envelope

	b, err := os.ReadFile(a.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return env, false, nil
		}

		return env, false, err
	}

	err = json.Unmarshal(b, &env)
	if err != nil {
		return env, false, fmt.Errorf("%w: %s: %w", errCorruptEntry, key, err)
	}

	return env, true, nil
}

func (a *FileArea) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	env, ok, err := a.read(key)

	return env.Value, ok, err
}

// Set writes the value to a temporary file and renames it into place so that
// readers never observe a partial write.
func (a *FileArea) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	b, err := json.Marshal(envelope{
		Origin:  a.origin,
		Value:   value,
		Written: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(a.dir, "."+key+".tmp-*")
	if err != nil {
		return err
	}

	_, err = tmp.Write(b)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	err = os.Rename(tmp.Name(), a.path(key))
	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return nil
}

func (a *FileArea) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	a.mu.Lock()
	a.pending[key]++
	a.mu.Unlock()

	err := os.Remove(a.path(key))
	if err == nil {
		return nil
	}

	a.mu.Lock()
	a.pending[key]--
	a.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func (a *FileArea) Subscribe(fn func(Event)) func() {
	return a.subs.add(fn)
}

func (a *FileArea) Close() error {
	var err error

	a.once.Do(func() {
		close(a.done)
		err = a.watcher.Close()
		a.subs.closeAll()
	})

	return err
}

func (a *FileArea) watchLoop() {
	for {
		select {
		case <-a.done:
			return
		case ev, ok := <-a.watcher.Events:
			if !ok {
				return
			}

			a.handle(ev)
		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("storage watcher error", slog.Any("error", err))
		}
	}
}

func (a *FileArea) handle(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
		return
	}

	key := strings.TrimSuffix(name, fileExt)

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		a.mu.Lock()
		own := a.pending[key] > 0
		if own {
			a.pending[key]--
		}
		a.mu.Unlock()

		if !own {
			a.subs.publish(Event{Key: key, Removed: true})
		}

		return
	}

	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	env, ok, err := a.read(key)
	if err != nil {
		slog.Debug(
			"skipping unreadable storage entry",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return
	}

	if !ok || env.Origin == a.origin {
		return
	}

	a.subs.publish(Event{Key: key, Value: env.Value})
}
