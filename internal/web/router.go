package web

import (
	"net/http"

	"wakawaka/internal/web/controller"
	"wakawaka/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", StaticFileServer()))

	authController := controller.Auth{
		AuthService: s.authService,
		Templates:   s.templates,
		IndexSlug:   s.cfg.DefaultIndex,
		Log:         s.log,
	}
	authController.Register(mux)

	pageController := controller.Page{
		Workflow:    s.workflow,
		Repo:        s.wikiRepo,
		AuthService: s.authService,
		Templates:   s.templates,
		Linker:      s.linker,
		Preprocess:  s.preprocess,
		IndexSlug:   s.cfg.DefaultIndex,
		SlugRe:      s.slugRe,
		Log:         s.log,
	}
	pageController.Register(mux)

	miscController := controller.Misc{
		Preprocess: s.preprocess,
		Linker:     s.linker,
		Log:        s.log,
	}
	miscController.Register(mux)

	return middleware.Logging(s.log)(middleware.WithUser(s.authService)(mux))
}
