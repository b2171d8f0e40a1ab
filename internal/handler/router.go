package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	fortunehandler "github.com/Heipiao/taluo/internal/handler/fortune"
	userhandler "github.com/Heipiao/taluo/internal/handler/user"
	middlewarePkg "github.com/Heipiao/taluo/internal/middleware"
	"github.com/Heipiao/taluo/internal/model/deity"
	"github.com/Heipiao/taluo/internal/service/account"
	fortuneservice "github.com/Heipiao/taluo/internal/service/fortune"
)

// NewRouter wires the dev server's HTTP routes to core services. Paths match
// the production contract exactly so the client needs nothing but a base URL
// override.
func NewRouter(accounts *account.Service, fortunes *fortuneservice.Service, catalog deity.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	userhandler.New(accounts).RegisterRoutes(r)
	fortunehandler.New(accounts, fortunes, catalog).RegisterRoutes(r)

	return r
}
