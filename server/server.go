package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/qlpt/rental-portal/internal/config"
	"github.com/qlpt/rental-portal/server/contractrepo"
	"github.com/qlpt/rental-portal/server/roomrepo"
	"github.com/qlpt/rental-portal/token"
	"github.com/qlpt/rental-portal/token/jwt"
	"github.com/qlpt/rental-portal/token/refresh"
	"github.com/qlpt/rental-portal/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Repos are the stores behind the demo backend.
type Repos struct {
	Users         users.UserRepo
	Rooms         roomrepo.Repo
	Contracts     contractrepo.Repo
	RefreshTokens refresh.Repo
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	repos     Repos
	log       zerolog.Logger
	tokens    *jwt.Creator
	inspector *jwt.Inspector
	refresh   *refresh.Manager

	// writeMu serializes mutations that span rooms and contracts.
	writeMu sync.Mutex
}

type Option func(*Server)

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds the REST backend the client talks to. Demo accounts, rooms and
// contracts are seeded when the user store is empty.
func New(cfg config.Config, repos Repos, opts ...Option) (*Server, error) {
	signer := token.NewHMACSigner(cfg.GetJWTSecret())

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		repos:     repos,
		log:       log.Logger,
		tokens:    jwt.NewCreator(cfg, signer),
		inspector: jwt.NewInspector(signer),
		refresh:   refresh.NewManager(repos.RefreshTokens, cfg),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.InitialiseDemoData(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to seed demo data: %w", err)
	}

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
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.log.Info().Msg(routeLine(parts[0], parts[1]))
		} else {
			s.log.Info().Msg(routeLine("", parts[0]))
		}
	}
}

func routeLine(method, path string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	return fmt.Sprintf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
