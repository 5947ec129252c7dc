package provider

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/metrics"
	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/wallet"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

type Config struct {
	ListenAddress  string
	AllowedOrigins []string
	PollInterval   time.Duration
}

type ServerOption func(*Server)

// WithHost delays the readiness event of every connection until host completes.
func WithHost(host discovery.Host) ServerOption {
	return func(s *Server) {
		s.host = host
	}
}

// Server serves a keyring to websocket clients. Each connection is a session
// of the Origin it was opened from.
type Server struct {
	kr         *wallet.Keyring
	cfg        Config
	host       discovery.Host
	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener

	conns     sync.Map
	connCount int64
	connID    int64
}

func NewServer(kr *wallet.Keyring, cfg Config, opts ...ServerOption) *Server {
	s := &Server{
		kr:   kr,
		cfg:  cfg,
		host: discovery.StaticHost(discovery.StateComplete),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	utils.WarnLogf("rejecting websocket connection from origin %q", origin)
	return false
}

// Handler returns the http handler serving /status and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return newCorsHandler(mux, s.cfg.AllowedOrigins)
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return errors.Wrap(err, "couldn't listen for provider connections")
	}
	s.listener = l
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	utils.Log("Starting provider websocket server at " + l.Addr().String())

	go func() {
		if err := s.httpServer.Serve(l); err != nil && err != http.ErrServerClosed {
			utils.ErrorLog(errors.Wrap(err, "provider server stopped"))
		}
	}()
	return nil
}

// Addr is the address the server listens on, once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.ListenAddress
	}
	return s.listener.Addr().String()
}

// Stop closes every connection and the http server.
func (s *Server) Stop(ctx context.Context) error {
	s.conns.Range(func(_, v interface{}) bool {
		v.(*conn).close()
		return true
	})
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type status struct {
	Chains      []string `json:"chains"`
	Connections int64    `json:"connections"`
	Ready       bool     `json:"ready"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := status{
		Connections: atomic.LoadInt64(&s.connCount),
		Ready:       s.host.ReadyState() == discovery.StateComplete,
	}
	for _, c := range s.kr.Chains() {
		st.Chains = append(st.Chains, c.ChainID)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		utils.ErrorLog(err)
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.ErrorLog(errors.Wrap(err, "couldn't upgrade websocket connection"))
		return
	}

	origin := r.Header.Get("Origin")
	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		id:      atomic.AddInt64(&s.connID, 1),
		server:  s,
		ws:      ws,
		origin:  origin,
		wallet:  s.kr.Session(origin),
		msgChan: make(chan []byte, 16),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		signers: make(map[string]signer.OfflineSigner),
	}
	s.conns.Store(c.id, c)
	atomic.AddInt64(&s.connCount, 1)
	metrics.ProviderConnections.Inc()
	utils.Logf("provider connection %d opened from %q", c.id, origin)

	go c.readerLoop()
	go c.writerLoop()
	go c.announceReady()
}
