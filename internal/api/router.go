package api

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dreamdive/dreamdive/internal/api/recovery"
	"github.com/dreamdive/dreamdive/internal/services"
	"github.com/dreamdive/dreamdive/internal/store"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Store      store.Store
	Auth       *services.AuthService
	Dreams     *services.DreamService
	SessionTTL time.Duration
	Healthy    func() bool
	Log        zerolog.Logger
}

// NewRouter wires HTTP routes to handlers.
func NewRouter(deps RouterDeps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Health sits outside the session middleware; probes carry no cookies.
	health := NewHealthHandler(deps.Healthy)
	root.HandleFunc("/api/health", health.Check).Methods("GET")

	session := NewSessionMiddleware(deps.Store.Sessions(), deps.SessionTTL, deps.Log)
	app := root.PathPrefix("/api").Subrouter()
	app.Use(session.Handler)

	authHandler := NewAuthHandler(deps.Auth)
	app.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	app.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	app.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	app.HandleFunc("/auth/user", authHandler.CurrentUser).Methods("GET")

	dreamHandler := NewDreamHandler(deps.Dreams)
	app.HandleFunc("/dreams/analyze", dreamHandler.Analyze).Methods("POST")
	app.HandleFunc("/dreams/usage", dreamHandler.Usage).Methods("GET")
	app.HandleFunc("/dreams/history", dreamHandler.History).Methods("GET")

	return root
}
