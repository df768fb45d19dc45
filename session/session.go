// Package session manages open documents. Each session ties one document
// to one canvas editor, tracks unsaved changes, watches the backing file
// for external writes, and persists view state through the workspace
// state store.
package session

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/easel/canvas"
	"github.com/teranos/easel/graphstore"
)

// Session is one open document.
type Session struct {
	ID   string
	Path string // empty for a never-saved document

	Doc    *graphstore.Document
	Editor *canvas.Editor

	log     *zap.SugaredLogger
	watcher *documentWatcher

	dirty atomic.Bool
	stale atomic.Bool
}

// Dirty reports whether the document changed since the last save.
func (s *Session) Dirty() bool {
	return s.dirty.Load()
}

// StaleOnDisk reports whether the backing file changed under the session.
// The shell decides whether to reload or overwrite.
func (s *Session) StaleOnDisk() bool {
	return s.stale.Load()
}

// Name returns a human label for tab lists.
func (s *Session) Name() string {
	if s.Path == "" {
		return "untitled"
	}
	return s.Path
}

// GraphChanged implements canvas.Observer; any mutation dirties the
// session.
func (s *Session) GraphChanged(bool) {
	s.dirty.Store(true)
}

// PickedChanged implements canvas.Observer.
func (s *Session) PickedChanged() {}

// RepaintRequested implements canvas.Observer.
func (s *Session) RepaintRequested() {}

func (s *Session) viewState() ViewState {
	return ViewState{Camera: s.Editor.Camera(), EditMode: s.Editor.EditMode()}
}

func (s *Session) closeWatcher() {
	if s.watcher != nil {
		s.watcher.close()
		s.watcher = nil
	}
}
