package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/gridpoint/tictactoe-server/internal/entity"
	"github.com/gridpoint/tictactoe-server/internal/match"
)

func TestDecodeCommand(t *testing.T) {
	t.Run("Move message carries its position", func(t *testing.T) {
		command, err := decodeCommand([]byte(`{"type":"move","position":4}`))
		require.NoError(t, err)

		move, ok := command.(match.MoveCommand)
		require.True(t, ok)
		require.Equal(t, 4, move.Position)
	})

	t.Run("Timeout sentinel survives decoding", func(t *testing.T) {
		command, err := decodeCommand([]byte(`{"type":"move","position":-1}`))
		require.NoError(t, err)

		move, ok := command.(match.MoveCommand)
		require.True(t, ok)
		require.Equal(t, match.TimeoutPosition, move.Position)
	})

	t.Run("Move without a position is refused", func(t *testing.T) {
		_, err := decodeCommand([]byte(`{"type":"move"}`))
		require.ErrorIs(t, err, ErrMissingPosition)
	})

	t.Run("Forfeit message", func(t *testing.T) {
		command, err := decodeCommand([]byte(`{"type":"forfeit"}`))
		require.NoError(t, err)
		require.IsType(t, match.ForfeitCommand{}, command)
	})

	t.Run("Unknown type is refused", func(t *testing.T) {
		_, err := decodeCommand([]byte(`{"type":"chat"}`))
		require.ErrorIs(t, err, ErrUnknownMessageType)
	})

	t.Run("Garbage payload is refused", func(t *testing.T) {
		_, err := decodeCommand([]byte(`not json`))
		require.Error(t, err)
	})
}

type noopBridge struct{}

func (noopBridge) RecordWin(_ context.Context, _, _ *entity.Player) error  { return nil }
func (noopBridge) RecordDraw(_ context.Context, _, _ *entity.Player) error { return nil }

type echoProfiles struct{}

func (echoProfiles) EnsureProfile(_ context.Context, id, name string) (*entity.Profile, error) {
	return &entity.Profile{ID: id, Name: name}, nil
}

// rawEvent is the loose shape of any broadcast, enough to route on type.
type rawEvent struct {
	Type        string `json:"type"`
	Position    *int   `json:"position"`
	CurrentTurn string `json:"currentTurn"`
	Winner      string `json:"winner"`
}

func startTestServer(t *testing.T) (*httptest.Server, match.Registry) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := match.NewRegistry()
	server := New(logger, registry, echoProfiles{})

	router := httprouter.New()
	router.GET("/ws/:matchId", func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		server.handleSession(context.Background(), w, r, params)
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts, registry
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func readEvent(t *testing.T, conn *gorilla.Conn) rawEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event rawEvent
	require.NoError(t, json.Unmarshal(data, &event))

	return event
}

func TestServer_Session(t *testing.T) {
	t.Run("Unknown match returns 404 before upgrade", func(t *testing.T) {
		ts, _ := startTestServer(t)

		_, resp, err := gorilla.DefaultDialer.Dial(wsURL(ts, "/ws/nope?player=p1&name=Ann"), nil)
		require.Error(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Two players join and play a move over the wire", func(t *testing.T) {
		ts, registry := startTestServer(t)

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		session := entity.NewSession("m1", entity.ModeStandard, 0)
		hub := match.NewHub(logger, session, noopBridge{}, registry)
		registry.Add(hub)
		go hub.Run()

		first, _, err := gorilla.DefaultDialer.Dial(wsURL(ts, "/ws/m1?player=p1&name=Ann"), nil)
		require.NoError(t, err)
		defer first.Close()

		require.Equal(t, match.EventPlayerJoined, readEvent(t, first).Type)

		second, _, err := gorilla.DefaultDialer.Dial(wsURL(ts, "/ws/m1?player=p2&name=Bob"), nil)
		require.NoError(t, err)
		defer second.Close()

		// the first client sees the second join, then both see game_start
		require.Equal(t, match.EventPlayerJoined, readEvent(t, first).Type)
		require.Equal(t, match.EventPlayerJoined, readEvent(t, second).Type)

		start := readEvent(t, first)
		require.Equal(t, match.EventGameStart, start.Type)
		require.Equal(t, "p1", start.CurrentTurn)
		require.Equal(t, match.EventGameStart, readEvent(t, second).Type)

		require.NoError(t, first.WriteMessage(gorilla.TextMessage, []byte(`{"type":"move","position":4}`)))

		move := readEvent(t, second)
		require.Equal(t, match.EventMoveMade, move.Type)
		require.NotNil(t, move.Position)
		require.Equal(t, 4, *move.Position)
		require.Equal(t, "p2", move.CurrentTurn)
	})

	t.Run("Disconnect mid-game forfeits in favor of the other player", func(t *testing.T) {
		ts, registry := startTestServer(t)

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		session := entity.NewSession("m2", entity.ModeStandard, 0)
		hub := match.NewHub(logger, session, noopBridge{}, registry)
		registry.Add(hub)
		go hub.Run()

		first, _, err := gorilla.DefaultDialer.Dial(wsURL(ts, "/ws/m2?player=p1&name=Ann"), nil)
		require.NoError(t, err)
		defer first.Close()
		readEvent(t, first) // own player_joined

		second, _, err := gorilla.DefaultDialer.Dial(wsURL(ts, "/ws/m2?player=p2&name=Bob"), nil)
		require.NoError(t, err)

		readEvent(t, first) // second player_joined
		readEvent(t, second)
		readEvent(t, first) // game_start
		readEvent(t, second)

		require.NoError(t, second.Close())

		over := readEvent(t, first)
		require.Equal(t, match.EventGameOver, over.Type)
		require.Equal(t, "p1", over.Winner)
	})
}
