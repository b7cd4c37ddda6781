package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/litcards/lit-backend/internal/entity"
	"github.com/litcards/lit-backend/internal/usecase"
)

type roomManager interface {
	CreateRoom(ctx context.Context, connectionID, playerName, roomName string, playerCount int) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, connectionID, playerName, roomName string) (*entity.Room, *entity.Player, error)
	JoinTeam(ctx context.Context, connectionID, roomName, team string) (*entity.Room, error)
	ShuffleTeams(ctx context.Context, connectionID, roomName string) (*entity.Room, error)
	StartGame(ctx context.Context, connectionID, roomName string) (*entity.Room, error)
	RequestCard(ctx context.Context, connectionID, roomName, targetPlayerID, suit, rank, setType string) (*usecase.RequestResult, error)
	DeclareSet(ctx context.Context, connectionID, roomName, suit, setType string) (*entity.Room, error)
	ClaimTurn(ctx context.Context, connectionID, roomName string) (*entity.Room, error)
	Disconnect(ctx context.Context, connectionID string) []*entity.Room
}

// client is one live websocket connection. Gorilla connections allow a single
// concurrent writer, so every send goes through the client's mutex.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

type Server struct {
	logger *slog.Logger
	rooms  roomManager

	upgrader websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	handlers map[string]func(ctx context.Context, cl *client, message *Message) error
}

func New(logger *slog.Logger, rooms roomManager) *Server {
	server := &Server{
		logger: logger,
		rooms:  rooms,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		connections: make(map[string]*client),
		handlers:    make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers["room:create"] = server.handleCreateRoom
	server.handlers["room:join"] = server.handleJoinRoom
	server.handlers["team:join"] = server.handleJoinTeam
	server.handlers["team:shuffle"] = server.handleShuffleTeams
	server.handlers["game:start"] = server.handleStartGame
	server.handlers["game:request"] = server.handleRequestCard
	server.handlers["game:declare"] = server.handleDeclareSet
	server.handlers["game:claim"] = server.handleClaimTurn

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
	}

	that.connectionsMutex.Lock()
	that.connections[cl.id] = cl
	that.connectionsMutex.Unlock()

	log = log.With("connectionID", cl.id)
	log.Info("WebSocket connection established")

	defer func() {
		conn.Close()
		that.handleDisconnect(ctx, cl)
	}()

	that.readMessages(ctx, cl)
}

// readMessages - processes messages from the client until the connection drops.
func (that *Server) readMessages(ctx context.Context, cl *client) {
	log := that.logger.With("method", "readMessages", "connectionID", cl.id)

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			_ = that.sendErrorResponse(cl, message.Action, "unknown action")
			continue
		}

		if err = that.dispatch(ctx, cl, handler, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// dispatch runs one handler behind a catch-all: an unexpected fault is
// surfaced as a generic internal error to the acting connection only, and
// never takes the room down.
func (that *Server) dispatch(ctx context.Context, cl *client, handler func(context.Context, *client, *Message) error, message *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			that.logger.Error("handler panicked", "action", message.Action, "panic", r)
			err = that.sendErrorResponse(cl, message.Action, "internal error")
		}
	}()

	return handler(ctx, cl, message)
}

func (that *Server) handleDisconnect(ctx context.Context, cl *client) {
	log := that.logger.With("method", "handleDisconnect", "connectionID", cl.id)

	that.connectionsMutex.Lock()
	delete(that.connections, cl.id)
	that.connectionsMutex.Unlock()

	for _, room := range that.rooms.Disconnect(ctx, cl.id) {
		that.broadcastRoom(room, "room:update")
	}

	log.Info("player disconnected")
}

func (that *Server) clientByConnectionID(connectionID string) (*client, bool) {
	that.connectionsMutex.RLock()
	cl, ok := that.connections[connectionID]
	that.connectionsMutex.RUnlock()

	return cl, ok
}

func (that *Server) sendMessage(cl *client, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: raw,
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if err = cl.conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(cl *client, action, errorMsg string) error {
	payload := ErrorPayload{Message: errorMsg, Action: action}
	if err := that.sendMessage(cl, "error", payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// broadcastRoom sends a masked snapshot of the room to every connected seat.
func (that *Server) broadcastRoom(room *entity.Room, action string) {
	log := that.logger.With("method", "broadcastRoom", "room", room.Name)

	view := NewRoomView(room)

	for _, player := range room.Players {
		if !player.Connected {
			continue
		}

		cl, ok := that.clientByConnectionID(player.ConnectionID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		if err := that.sendMessage(cl, action, RoomPayload{Room: view}); err != nil {
			log.Error("failed to send room update", "playerID", player.ID, "error", err)
		}
	}
}

// broadcastActionUpdate sends only the {lastAction, turn} delta.
func (that *Server) broadcastActionUpdate(room *entity.Room) {
	log := that.logger.With("method", "broadcastActionUpdate", "room", room.Name)

	payload := ActionUpdatePayload{
		LastAction:          room.LastAction,
		CurrentTurnPlayerID: room.CurrentTurnPlayerID,
	}

	for _, player := range room.Players {
		if !player.Connected {
			continue
		}

		cl, ok := that.clientByConnectionID(player.ConnectionID)
		if !ok {
			continue
		}

		if err := that.sendMessage(cl, "action:update", payload); err != nil {
			log.Error("failed to send action update", "playerID", player.ID, "error", err)
		}
	}
}

// sendHand pushes a seat's full hand privately to its own connection.
func (that *Server) sendHand(player *entity.Player) {
	if !player.Connected {
		return
	}

	cl, ok := that.clientByConnectionID(player.ConnectionID)
	if !ok {
		return
	}

	payload := HandPayload{Hand: player.Hand}
	if payload.Hand == nil {
		payload.Hand = []entity.Card{}
	}

	if err := that.sendMessage(cl, "hand:update", payload); err != nil {
		that.logger.Error("failed to send hand update", "playerID", player.ID, "error", err)
	}
}
