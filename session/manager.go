package session

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/easel/canvas"
	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/layout"
	"github.com/teranos/easel/logger"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/sym"
)

// Manager owns the open sessions and the current-session cursor. A nil
// state store is allowed; view state is then simply not persisted.
type Manager struct {
	log   *zap.SugaredLogger
	ren   render.Renderer
	opts  canvas.Options
	store *StateStore
	mode  canvas.EditMode

	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
	current  string
}

// NewManager returns an empty session manager.
func NewManager(ren render.Renderer, opts canvas.Options, store *StateStore) *Manager {
	return &Manager{
		log:      logger.Named("session"),
		ren:      ren,
		opts:     opts,
		store:    store,
		sessions: make(map[string]*Session),
	}
}

// SetDefaultEditMode sets the mode new sessions start in.
func (m *Manager) SetDefaultEditMode(mode canvas.EditMode) {
	m.mode = mode
}

// New opens a session over an empty document.
func (m *Manager) New() *Session {
	s := m.build(graphstore.NewDocument(), "")
	m.log.Infow("new document", "session", s.ID, "symbol", sym.Session)
	return s
}

// Open loads a document from disk into a new session. Documents without
// usable positions get a synchronous force-directed layout before the
// session becomes interactive; restored view state is applied when the
// state store knows the path.
func (m *Manager) Open(path string) (*Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	doc, err := graphstore.Load(abs)
	if err != nil {
		return nil, err
	}

	ids := doc.Store.Vertices()
	if len(ids) > 0 && (len(doc.Pos) < len(ids) || layout.Degenerate(doc.Pos, ids)) {
		m.log.Infow("laying out document without positions",
			"path", abs, "vertices", len(ids), "symbol", sym.Layout)
		for id, p := range layout.ForceDirected(doc.Store, m.opts.LayoutSeed) {
			doc.Pos[id] = p
		}
	}

	s := m.build(doc, abs)
	if m.store != nil {
		if st, err := m.store.LoadView(abs); err == nil {
			s.Editor.SetCamera(st.Camera)
			s.Editor.SetEditMode(st.EditMode)
		} else if !errors.Is(err, errors.ErrNotFound) {
			m.log.Warnw("view state unavailable", "path", abs, "error", err)
		}
	}

	if w, err := newDocumentWatcher(abs, s.log, func() { s.stale.Store(true) }); err != nil {
		m.log.Warnw("document watch unavailable", "path", abs, "error", err)
	} else {
		s.watcher = w
	}

	m.log.Infow("opened document",
		"session", s.ID, "path", abs,
		"vertices", doc.Store.Order(), "edges", doc.Store.Size(),
		"symbol", sym.Session)
	return s, nil
}

func (m *Manager) build(doc *graphstore.Document, path string) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		Path:   path,
		Doc:    doc,
		Editor: canvas.New(doc, m.ren, m.opts),
		log:    logger.Named("session").With("session_path", path),
	}
	s.Editor.SetEditMode(m.mode)
	s.Editor.Subscribe(s)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	m.current = s.ID
	m.mu.Unlock()
	return s
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrSessionNotFound, "session %s", id)
	}
	return s, nil
}

// Current returns the focused session, nil when none are open.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[m.current]
}

// SetCurrent focuses a session.
func (m *Manager) SetCurrent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.Wrapf(errors.ErrSessionNotFound, "session %s", id)
	}
	m.current = id
	return nil
}

// Sessions returns the open sessions in opening order.
func (m *Manager) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sessions[id])
	}
	return out
}

// SetEditMode switches the mode on every open session, the toolbar
// broadcast.
func (m *Manager) SetEditMode(mode canvas.EditMode) {
	m.mode = mode
	for _, s := range m.Sessions() {
		s.Editor.SetEditMode(mode)
	}
}

// Save writes a session's document back to its path.
func (m *Manager) Save(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if s.Path == "" {
		return errors.Wrap(errors.ErrInvalidInput, "session has no path, use SaveAs")
	}
	return m.saveTo(s, s.Path)
}

// SaveAs writes a session's document to a new path and rebinds the
// session to it.
func (m *Manager) SaveAs(id, path string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}
	if err := m.saveTo(s, abs); err != nil {
		return err
	}
	if s.Path != abs {
		s.closeWatcher()
		s.Path = abs
		if w, err := newDocumentWatcher(abs, s.log, func() { s.stale.Store(true) }); err == nil {
			s.watcher = w
		}
	}
	return nil
}

func (m *Manager) saveTo(s *Session, path string) error {
	if s.watcher != nil {
		s.watcher.markOwnWrite()
	}
	if err := graphstore.Save(s.Doc, path); err != nil {
		return err
	}
	s.dirty.Store(false)
	s.stale.Store(false)
	m.persistView(s, path)
	m.log.Infow("saved document", "session", s.ID, "path", path, "symbol", sym.Session)
	return nil
}

func (m *Manager) persistView(s *Session, path string) {
	if m.store == nil || path == "" {
		return
	}
	if err := m.store.SaveView(path, s.viewState()); err != nil {
		m.log.Warnw("persisting view state", "path", path, "error", err)
	}
}

// Close tears down a session, persisting its view state first. Unsaved
// document changes are the caller's problem; check Dirty before closing.
func (m *Manager) Close(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	m.persistView(s, s.Path)
	s.closeWatcher()

	m.mu.Lock()
	delete(m.sessions, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.current == id {
		m.current = ""
		if len(m.order) > 0 {
			m.current = m.order[len(m.order)-1]
		}
	}
	m.mu.Unlock()

	m.log.Infow("closed session", "session", id, "symbol", sym.Session)
	return nil
}

// CloseAll closes every session, used on shutdown.
func (m *Manager) CloseAll() {
	for _, s := range m.Sessions() {
		if err := m.Close(s.ID); err != nil {
			m.log.Warnw("closing session", "session", s.ID, "error", err)
		}
	}
}
