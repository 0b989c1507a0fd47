package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/gridpoint/tictactoe-server/internal/entity"
	"github.com/gridpoint/tictactoe-server/internal/match"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type sessionRegistry interface {
	Get(id string) (*match.Hub, bool)
}

type profileService interface {
	EnsureProfile(ctx context.Context, id, name string) (*entity.Profile, error)
}

type Server struct {
	logger   *slog.Logger
	registry sessionRegistry
	profiles profileService
}

func New(logger *slog.Logger, registry sessionRegistry, profiles profileService) *Server {
	return &Server{
		logger:   logger.With("component", "websocket"),
		registry: registry,
		profiles: profiles,
	}
}

// Start - starts the realtime session server.
func (that *Server) Start(ctx context.Context, port string) error {
	router := httprouter.New()
	router.GET("/ws/:matchId", func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		that.handleSession(ctx, w, r, params)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  0, // the session connection stays open for the whole game
		WriteTimeout: 0,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleSession upgrades the connection and joins the caller into the
// requested session.
func (that *Server) handleSession(ctx context.Context, w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	log := that.logger.With("method", "handleSession")

	matchID := params.ByName("matchId")

	hub, ok := that.registry.Get(matchID)
	if !ok {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	profile, err := that.profiles.EnsureProfile(ctx, r.URL.Query().Get("player"), r.URL.Query().Get("name"))
	if err != nil {
		log.Error("failed to resolve profile", "error", err)
		http.Error(w, "failed to resolve player", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log = log.With("matchID", matchID, "playerID", profile.ID)

	client := match.NewClient(profile.ID, profile.Name)
	if err = hub.Join(client); err != nil {
		log.Warn("join refused", "error", err)
		conn.Close()
		return
	}

	log.Info("connection established")

	go that.writePump(conn, client)
	that.readPump(conn, hub, client)
}

// readPump drains client messages into the hub until the connection
// dies, which counts as leaving the session.
func (that *Server) readPump(conn *websocket.Conn, hub *match.Hub, client *match.Client) {
	log := that.logger.With("method", "readPump", "playerID", client.PlayerID)

	defer func() {
		hub.Leave(client)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		command, err := decodeCommand(data)
		if err != nil {
			// protocol error: drop the message, keep the session intact
			log.Warn("discarding malformed message", "error", err)
			continue
		}

		hub.Dispatch(client, command)
	}
}

// writePump delivers session events to the connection. The hub closing
// the client channel ends the pump and the connection with it.
func (that *Server) writePump(conn *websocket.Conn, client *match.Client) {
	log := that.logger.With("method", "writePump", "playerID", client.PlayerID)

	defer conn.Close()

	for event := range client.Messages() {
		if err := conn.WriteJSON(event); err != nil {
			log.Warn("failed to write event", "error", err)
			return
		}
	}
}
