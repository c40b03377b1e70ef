// ABOUTME: fsnotify-backed watcher that turns config file changes into tea messages.
// ABOUTME: Watches the parent directory so editor rename-on-save is still seen.
package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ConfigChangedMsg reports that the watched config file was written or replaced.
type ConfigChangedMsg struct {
	Path string
}

// watchErrMsg carries an error from the watcher.
type watchErrMsg struct {
	err error
}

// Watcher delivers ConfigChangedMsg for one file.
type Watcher struct {
	fw   *fsnotify.Watcher
	path string
}

// NewWatcher starts watching path. The file does not need to exist yet.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{fw: fw, path: abs}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Next returns a command that blocks until the file changes. Re-issue it
// after each message to keep watching.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fw.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					return ConfigChangedMsg{Path: w.path}
				}
			case err, ok := <-w.fw.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

// Close stops the watcher; pending Next commands return nil.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
