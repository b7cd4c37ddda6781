package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/litcards/lit-backend/internal/apperror"
	"github.com/litcards/lit-backend/internal/entity"
	"github.com/litcards/lit-backend/internal/lit"
)

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
}

// RoomManager is the authoritative registry of live rooms. The in-memory map
// is the source of truth; every mutation is mirrored to the repository
// best-effort so operators can inspect room state from outside the process.
//
// The registry map is guarded by its own lock, and each room carries a lock
// of its own: two actions on the same room serialize, actions on different
// rooms run in parallel. Every method returns a clone built while the room
// lock is held, never the live room, so callers can serialize broadcasts
// without racing the next action.
type RoomManager struct {
	logger   *slog.Logger
	roomRepo roomRepo

	// rand.Rand is not safe for concurrent use; rngMu covers every draw so
	// rooms can act in parallel with one injected, seedable generator.
	rngMu sync.Mutex
	rng   *rand.Rand

	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu   sync.Mutex
	room *entity.Room
}

func NewRoomManager(logger *slog.Logger, roomRepo roomRepo, rng *rand.Rand) *RoomManager {
	return &RoomManager{
		logger:   logger,
		roomRepo: roomRepo,
		rng:      rng,
		rooms:    make(map[string]*roomEntry),
	}
}

// RequestResult reports what a card request changed, for transport to decide
// which private hand updates to push.
type RequestResult struct {
	Room        *entity.Room
	Transferred bool
	RequesterID string
	TargetID    string
}

// CreateRoom creates a room with the creator in the first seat as admin.
func (that *RoomManager) CreateRoom(ctx context.Context, connectionID, playerName, roomName string, playerCount int) (*entity.Room, *entity.Player, error) {
	if playerCount != 6 && playerCount != 8 {
		return nil, nil, fmt.Errorf("%w: player count must be 6 or 8", apperror.ErrInvalidRequest)
	}

	that.mu.Lock()
	if _, ok := that.rooms[roomName]; ok {
		that.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrRoomAlreadyExists, roomName)
	}

	creator := entity.NewPlayer(uuid.NewString(), connectionID, playerName)
	room := entity.NewRoom(roomName, playerCount, creator)
	room.LastAction = fmt.Sprintf("%s created the room", playerName)
	that.rooms[roomName] = &roomEntry{room: room}
	snapshot := room.Clone()
	that.mu.Unlock()

	that.mirror(ctx, snapshot)

	return snapshot, snapshot.PlayerByID(creator.ID), nil
}

// JoinRoom seats a new player, or rebinds a disconnected seat with the same
// name to the new connection (reconnection takeover).
func (that *RoomManager) JoinRoom(ctx context.Context, connectionID, playerName, roomName string) (*entity.Room, *entity.Player, error) {
	entry, err := that.entry(roomName)
	if err != nil {
		return nil, nil, err
	}

	entry.mu.Lock()

	room := entry.room

	seatID := ""
	if seat := room.PlayerByName(playerName); seat != nil {
		if seat.Connected {
			entry.mu.Unlock()
			return nil, nil, fmt.Errorf("%w: %s", apperror.ErrNameTaken, playerName)
		}

		seat.Rebind(connectionID)
		room.LastAction = fmt.Sprintf("%s reconnected", playerName)
		seatID = seat.ID
	} else {
		if room.IsFull() {
			entry.mu.Unlock()
			return nil, nil, fmt.Errorf("%w: %s", apperror.ErrRoomFull, roomName)
		}

		player := entity.NewPlayer(uuid.NewString(), connectionID, playerName)
		room.Players = append(room.Players, player)
		room.LastAction = fmt.Sprintf("%s joined the room", playerName)
		seatID = player.ID
	}

	snapshot := room.Clone()
	entry.mu.Unlock()

	that.mirror(ctx, snapshot)

	return snapshot, snapshot.PlayerByID(seatID), nil
}

// JoinTeam sets the calling seat's team, respecting the playerCount/2 cap.
func (that *RoomManager) JoinTeam(ctx context.Context, connectionID, roomName, team string) (*entity.Room, error) {
	if team != entity.TeamRed && team != entity.TeamBlue {
		return nil, fmt.Errorf("%w: unknown team %q", apperror.ErrInvalidRequest, team)
	}

	return that.withRoom(ctx, roomName, func(room *entity.Room) error {
		player := room.PlayerByConnectionID(connectionID)
		if player == nil {
			return apperror.ErrPlayerNotFound
		}

		if room.TeamCount(team) >= room.TeamSize() {
			return fmt.Errorf("%w: %s", apperror.ErrTeamFull, team)
		}

		player.Team = team
		room.LastAction = fmt.Sprintf("%s joined team %s", player.Name, team)

		return nil
	})
}

// ShuffleTeams randomly re-seats everyone and splits the seats into two even
// teams. Admin only.
func (that *RoomManager) ShuffleTeams(ctx context.Context, connectionID, roomName string) (*entity.Room, error) {
	return that.withRoom(ctx, roomName, func(room *entity.Room) error {
		player := room.PlayerByConnectionID(connectionID)
		if player == nil {
			return apperror.ErrPlayerNotFound
		}

		if room.AdminID != player.ID {
			return apperror.ErrNotAdmin
		}

		that.rngMu.Lock()
		lit.ShuffleTeams(room, that.rng)
		that.rngMu.Unlock()

		room.LastAction = fmt.Sprintf("%s shuffled the teams", player.Name)

		return nil
	})
}

// StartGame deals the deck and opens play. Admin only.
func (that *RoomManager) StartGame(ctx context.Context, connectionID, roomName string) (*entity.Room, error) {
	return that.withRoom(ctx, roomName, func(room *entity.Room) error {
		player := room.PlayerByConnectionID(connectionID)
		if player == nil {
			return apperror.ErrPlayerNotFound
		}

		if room.AdminID != player.ID {
			return apperror.ErrNotAdmin
		}

		that.rngMu.Lock()
		defer that.rngMu.Unlock()

		return lit.Start(room, that.rng)
	})
}

// RequestCard runs one card request by the caller against the target seat.
func (that *RoomManager) RequestCard(ctx context.Context, connectionID, roomName, targetPlayerID, suit, rank, setType string) (*RequestResult, error) {
	entry, err := that.entry(roomName)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()

	room := entry.room

	player := room.PlayerByConnectionID(connectionID)
	if player == nil {
		entry.mu.Unlock()
		return nil, apperror.ErrPlayerNotFound
	}

	transferred, err := lit.RequestCard(room, player.ID, targetPlayerID, suit, rank, setType)
	if err != nil {
		entry.mu.Unlock()
		return nil, err
	}

	requesterID := player.ID
	snapshot := room.Clone()
	entry.mu.Unlock()

	that.mirror(ctx, snapshot)

	return &RequestResult{
		Room:        snapshot,
		Transferred: transferred,
		RequesterID: requesterID,
		TargetID:    targetPlayerID,
	}, nil
}

// DeclareSet adjudicates a set declaration by the caller.
func (that *RoomManager) DeclareSet(ctx context.Context, connectionID, roomName, suit, setType string) (*entity.Room, error) {
	return that.withRoom(ctx, roomName, func(room *entity.Room) error {
		player := room.PlayerByConnectionID(connectionID)
		if player == nil {
			return apperror.ErrPlayerNotFound
		}

		that.rngMu.Lock()
		defer that.rngMu.Unlock()

		_, err := lit.DeclareSet(room, player.ID, suit, setType, that.rng)
		return err
	})
}

// ClaimTurn lets a claim-eligible seat take the turn.
func (that *RoomManager) ClaimTurn(ctx context.Context, connectionID, roomName string) (*entity.Room, error) {
	return that.withRoom(ctx, roomName, func(room *entity.Room) error {
		player := room.PlayerByConnectionID(connectionID)
		if player == nil {
			return apperror.ErrPlayerNotFound
		}

		return lit.ClaimTurn(room, player.ID)
	})
}

// Disconnect marks the connection's seats disconnected in every room that
// holds one, repairing the turn and the admin reference as needed. It
// returns the affected rooms so transport can broadcast the new state.
func (that *RoomManager) Disconnect(ctx context.Context, connectionID string) []*entity.Room {
	log := that.logger.With("method", "Disconnect", "connectionID", connectionID)

	that.mu.RLock()
	entries := make([]*roomEntry, 0, len(that.rooms))
	for _, entry := range that.rooms {
		entries = append(entries, entry)
	}
	that.mu.RUnlock()

	var affected []*entity.Room
	for _, entry := range entries {
		entry.mu.Lock()

		room := entry.room
		player := room.PlayerByConnectionID(connectionID)
		if player == nil || !player.Connected {
			entry.mu.Unlock()
			continue
		}

		player.Connected = false
		player.CanClaimTurn = false
		room.LastAction = fmt.Sprintf("%s disconnected", player.Name)

		if room.IsPlaying() && room.CurrentTurnPlayerID == player.ID {
			if next := room.NextConnectedAfter(player.ID); next != nil {
				room.CurrentTurnPlayerID = next.ID
				room.LastAction = fmt.Sprintf("%s disconnected, turn passes to %s", player.Name, next.Name)
			} else {
				// Every seat is gone; the turn stays with the departed seat
				// until someone reconnects. Surface it, don't spin.
				log.Warn("no connected seat to take the turn", "room", room.Name)
				room.LastAction = fmt.Sprintf("%s disconnected, no connected player can act", player.Name)
			}
		}

		if room.AdminID == player.ID {
			if next := room.FirstConnected(); next != nil {
				room.AdminID = next.ID
			}
		}

		snapshot := room.Clone()
		entry.mu.Unlock()

		that.mirror(ctx, snapshot)
		affected = append(affected, snapshot)
	}

	return affected
}

// Room returns a snapshot of the room by name.
func (that *RoomManager) Room(roomName string) (*entity.Room, error) {
	entry, err := that.entry(roomName)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	snapshot := entry.room.Clone()
	entry.mu.Unlock()

	return snapshot, nil
}

func (that *RoomManager) entry(roomName string) (*roomEntry, error) {
	that.mu.RLock()
	entry, ok := that.rooms[roomName]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomName)
	}

	return entry, nil
}

// withRoom serializes a mutation against one room and, on success, returns a
// snapshot taken before the lock is released and mirrors it.
func (that *RoomManager) withRoom(ctx context.Context, roomName string, fn func(room *entity.Room) error) (*entity.Room, error) {
	entry, err := that.entry(roomName)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()

	if err = fn(entry.room); err != nil {
		entry.mu.Unlock()
		return nil, err
	}

	snapshot := entry.room.Clone()
	entry.mu.Unlock()

	that.mirror(ctx, snapshot)

	return snapshot, nil
}

// mirror pushes a snapshot of the room to the repository. Memory stays
// authoritative; a failed mirror is logged and never fails the action.
func (that *RoomManager) mirror(ctx context.Context, room *entity.Room) {
	if that.roomRepo == nil {
		return
	}

	if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		that.logger.Error("failed to mirror room snapshot", "room", room.Name, "error", err)
	}
}
