// Package bridge serves the canvas to remote viewers over WebSocket.
// Each connection binds to one session; inbound JSON messages carry the
// shell-to-core calls and input events, outbound messages carry
// PNG-encoded frames and the editor's observer events. Frames are
// rate-limited per viewer.
package bridge

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/teranos/easel/config"
	"github.com/teranos/easel/logger"
	"github.com/teranos/easel/session"
	"github.com/teranos/easel/sym"
)

// Server is the viewer bridge. It owns no sessions itself; it drives the
// session manager's.
type Server struct {
	log *zap.SugaredLogger
	cfg config.Bridge
	mgr *session.Manager

	httpServer *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.Mutex
	claimed map[string]bool // session ids already driven by a viewer
}

// NewServer returns a bridge over the given session manager.
func NewServer(cfg config.Bridge, mgr *session.Manager) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		log:     logger.Named("bridge"),
		cfg:     cfg,
		mgr:     mgr,
		ctx:     ctx,
		cancel:  cancel,
		claimed: make(map[string]bool),
	}
}

// Handler returns the bridge's HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe blocks serving viewers until Shutdown.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket writes manage their own deadlines
	}
	s.log.Infow("viewer bridge listening", "addr", addr, "fps", s.cfg.FPS, "symbol", sym.Bridge)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting viewers, cancels the pumps and waits for them.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	return err
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates the Origin header against the configured allowed
// origins by prefix, so any port on an allowed host passes. Absent
// headers pass; non-browser clients send none.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost") ||
			strings.HasPrefix(origin, "http://127.0.0.1")
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorw("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	sess := s.claimSession()
	s.log.Infow("viewer connected",
		"remote", r.RemoteAddr, "session", sess.ID, "symbol", sym.Bridge)

	v := newViewer(s, conn, sess, s.cfg.FPS)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		defer s.releaseSession(sess.ID)
		v.run()
	}()
	go func() {
		defer s.wg.Done()
		v.writePump()
	}()
	go v.readPump()
}

// claimSession binds a connection to the current session when no other
// viewer drives it, and to a fresh one otherwise. One goroutine per
// session keeps editor access serialized.
func (s *Server) claimSession() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.mgr.Current(); cur != nil && !s.claimed[cur.ID] {
		s.claimed[cur.ID] = true
		return cur
	}
	sess := s.mgr.New()
	s.claimed[sess.ID] = true
	return sess
}

func (s *Server) releaseSession(id string) {
	s.mu.Lock()
	delete(s.claimed, id)
	s.mu.Unlock()
}
