package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	"wakawaka/internal/auth"
	"wakawaka/internal/config"
	"wakawaka/internal/preprocess"
	"wakawaka/internal/web/controller"
	"wakawaka/internal/wiki"
	"wakawaka/internal/wikiword"
)

// Server holds the dependencies for the web server.
type Server struct {
	db          *sql.DB
	cfg         config.Config
	log         zerolog.Logger
	templates   map[string]*template.Template
	authService *auth.Service
	wikiRepo    *wiki.Repository
	workflow    *wiki.Workflow
	linker      *wikiword.Linker
	preprocess  preprocess.Func
	slugRe      *regexp.Regexp
}

// NewServer creates a new server with the given dependencies.
func NewServer(db *sql.DB, cfg config.Config, log zerolog.Logger) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	wikiRepo := wiki.NewRepository(db)
	workflow := wiki.NewWorkflow(wikiRepo, log)
	authService := auth.NewService(auth.NewRepository(db))

	linker, err := wikiword.New(cfg.SlugPattern, wikiRepo, controller.URLs{})
	if err != nil {
		return nil, err
	}

	pre, err := preprocess.ByName(cfg.Preprocessor)
	if err != nil {
		return nil, err
	}

	// Request slugs must fully match the linker pattern.
	slugRe, err := regexp.Compile("^(?:" + cfg.Pattern() + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid slug pattern: %w", err)
	}

	return &Server{
		db:          db,
		cfg:         cfg,
		log:         log,
		templates:   templates,
		authService: authService,
		wikiRepo:    wikiRepo,
		workflow:    workflow,
		linker:      linker,
		preprocess:  pre,
		slugRe:      slugRe,
	}, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}
