package session

import (
	"database/sql"
	"embed"
	"encoding/json"
	"path"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/easel/canvas"
	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/logger"
	"github.com/teranos/easel/sym"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ViewState is the per-document view a session resumes with.
type ViewState struct {
	Camera   canvas.Camera
	EditMode canvas.EditMode
}

// StateStore persists view state per document path in a small sqlite
// database, so reopening a document restores the camera it was closed
// with.
type StateStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// OpenStateStore opens (or creates) the workspace state database and runs
// pending migrations. Use ":memory:" for an ephemeral store.
func OpenStateStore(path string) (*StateStore, error) {
	log := logger.Named("session.state")
	log.Debugw("opening state store", "path", path, "symbol", sym.DB)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening state store")
	}
	// One connection keeps ":memory:" coherent and sidesteps write locks.
	db.SetMaxOpenConns(1)

	// WAL keeps reads cheap while a save is in flight.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "executing %s", pragma)
		}
	}

	if err := migrate(db, log); err != nil {
		db.Close()
		return nil, err
	}
	return &StateStore{db: db, log: log}, nil
}

// Close releases the database.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// SaveView upserts the view state for a document path.
func (s *StateStore) SaveView(docPath string, st ViewState) error {
	cam, err := json.Marshal(st.Camera)
	if err != nil {
		return errors.Wrap(err, "encoding camera")
	}
	_, err = s.db.Exec(`
		INSERT INTO view_state (doc_path, camera, edit_mode, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(doc_path) DO UPDATE SET
			camera = excluded.camera,
			edit_mode = excluded.edit_mode,
			updated_at = CURRENT_TIMESTAMP`,
		docPath, string(cam), st.EditMode.String())
	if err != nil {
		return errors.Wrapf(err, "saving view state for %s", docPath)
	}
	return nil
}

// LoadView returns the stored view state for a document path, or
// ErrNotFound when the document was never seen.
func (s *StateStore) LoadView(docPath string) (ViewState, error) {
	var (
		cam  string
		mode string
	)
	err := s.db.QueryRow(
		"SELECT camera, edit_mode FROM view_state WHERE doc_path = ?",
		docPath).Scan(&cam, &mode)
	if err == sql.ErrNoRows {
		return ViewState{}, errors.Wrapf(errors.ErrNotFound, "no view state for %s", docPath)
	}
	if err != nil {
		return ViewState{}, errors.Wrapf(err, "loading view state for %s", docPath)
	}

	var st ViewState
	if err := json.Unmarshal([]byte(cam), &st.Camera); err != nil {
		return ViewState{}, errors.Wrap(err, "decoding camera")
	}
	st.EditMode = editModeByName(mode)
	return st, nil
}

// Recent returns the most recently touched document paths, newest first.
func (s *StateStore) Recent(limit int) ([]string, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.Query(
		"SELECT doc_path FROM view_state ORDER BY updated_at DESC, doc_path LIMIT ?",
		limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing recent documents")
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Wrap(err, "scanning recent document")
		}
		paths = append(paths, p)
	}
	return paths, errors.Wrap(rows.Err(), "iterating recent documents")
}

// Forget drops the view state for a document path.
func (s *StateStore) Forget(docPath string) error {
	_, err := s.db.Exec("DELETE FROM view_state WHERE doc_path = ?", docPath)
	return errors.Wrapf(err, "forgetting view state for %s", docPath)
}

func editModeByName(name string) canvas.EditMode {
	switch name {
	case canvas.ModePlaceNode.String():
		return canvas.ModePlaceNode
	case canvas.ModePlaceEdge.String():
		return canvas.ModePlaceEdge
	default:
		return canvas.ModeSelect
	}
}

// migrate applies all pending migrations in filename order.
func migrate(db *sql.DB, log *zap.SugaredLogger) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return errors.Wrap(err, "reading migrations")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, filename := range files {
		version := strings.Split(filename, "_")[0]

		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)",
			version).Scan(&exists)
		if err != nil {
			// Table missing: only migration 000 may run before it exists.
			if version != "000" {
				return errors.Newf("schema_migrations table missing, but migration is not 000: %s", filename)
			}
		} else if exists {
			continue
		}

		sqlBytes, err := migrations.ReadFile(path.Join("migrations", filename))
		if err != nil {
			return errors.Wrapf(err, "reading %s", filename)
		}
		log.Debugw("applying migration", "migration", filename, "symbol", sym.DB)

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "beginning tx for %s", filename)
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "executing %s", filename)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "recording %s", filename)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "committing %s", filename)
		}
	}
	return nil
}
