package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sessionauth/go-session-core/internal/config"
	"github.com/sessionauth/go-session-core/kv"
	"github.com/sessionauth/go-session-core/sessions"
	"github.com/sessionauth/go-session-core/users"
)

// Server is presentation glue over the authentication core. It owns no design
// content of its own: every handler calls into the user directory or the
// session manager and translates the result to HTTP.
type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	users    *users.Directory
	sessions *sessions.Manager
	primary  kv.Store // primary session channel, seeded from the cookie by the guard
	ttl      int      // cookie Max-Age in seconds, mirrors the session TTL
}

func New(cfg config.Config, directory *users.Directory, manager *sessions.Manager, primary kv.Store) (*Server, error) {
	if directory == nil {
		return nil, fmt.Errorf("[Server New] directory is required")
	}
	if manager == nil {
		return nil, fmt.Errorf("[Server New] session manager is required")
	}
	if primary == nil {
		return nil, fmt.Errorf("[Server New] primary channel is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		users:    directory,
		sessions: manager,
		primary:  primary,
		ttl:      int(cfg.GetSessionTTL().Seconds()),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
	}
}
