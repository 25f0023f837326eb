package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/handlers"

	"github.com/npezzotti/go-chat-relay/internal/config"
	"github.com/npezzotti/go-chat-relay/internal/server"
)

const version = "1.0.0"

// RelayApp is the HTTP surface of one relay process: the websocket
// endpoint, the health check and the stats vars.
type RelayApp struct {
	log       *log.Logger
	srv       *http.Server
	chat      *server.Server
	startTime time.Time
}

func NewRelayApp(mux *http.ServeMux, logger *log.Logger, chat *server.Server, cfg *config.Config) *RelayApp {
	a := &RelayApp{
		log:       logger,
		chat:      chat,
		startTime: time.Now(),
	}

	mux.HandleFunc("GET /ws", chat.ServeWS)
	mux.HandleFunc("GET /health", a.health)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
	)(mux)

	h = handlers.LoggingHandler(logger.Writer(), h)
	h = a.recoveryHandler(h)

	a.srv = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return a
}

func (a *RelayApp) Start() error {
	a.log.Printf("starting server on %s\n", a.srv.Addr)
	return a.srv.ListenAndServe()
}

func (a *RelayApp) Shutdown(ctx context.Context) error {
	a.log.Println("shutting down HTTP server...")
	if err := a.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
