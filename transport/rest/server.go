package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Start - starts the RPC-style HTTP server.
func Start(logger *slog.Logger, port string, handlers *Handlers) error {
	router := httprouter.New()
	router.GET("/ping", handlers.Ping)
	router.POST("/rpc/create_match", handlers.CreateMatch)
	router.POST("/rpc/find_match", handlers.FindMatch)
	router.GET("/rpc/player_stats/:id", handlers.PlayerStats)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	logger.Info("HTTP routes registered", "port", port)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
