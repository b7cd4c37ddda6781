package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/litcards/lit-backend/internal/entity"
)

func (that *Server) handleCreateRoom(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleCreateRoom", "connectionID", cl.id)

	var payload CreateRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.PlayerName == "" || payload.RoomName == "" {
		return that.sendErrorResponse(cl, msg.Action, "player name and room name are required")
	}

	room, player, err := that.rooms.CreateRoom(ctx, cl.id, payload.PlayerName, payload.RoomName, payload.PlayerCount)
	if err != nil {
		log.Error("failed to create room", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	response := JoinedPayload{
		RoomName: room.Name,
		PlayerID: player.ID,
		Room:     NewRoomView(room),
	}

	if err = that.sendMessage(cl, "room:created", response); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("room created", "room", room.Name, "playerCount", room.PlayerCount)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "connectionID", cl.id)

	var payload JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.PlayerName == "" || payload.RoomName == "" {
		return that.sendErrorResponse(cl, msg.Action, "player name and room name are required")
	}

	room, player, err := that.rooms.JoinRoom(ctx, cl.id, payload.PlayerName, payload.RoomName)
	if err != nil {
		log.Error("failed to join room", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	response := JoinedPayload{
		RoomName: room.Name,
		PlayerID: player.ID,
		Room:     NewRoomView(room),
	}

	if err = that.sendMessage(cl, "room:joined", response); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.broadcastRoom(room, "room:update")

	// A rejoining seat gets its hand back in the middle of a game.
	if len(player.Hand) > 0 {
		that.sendHand(player)
	}

	log.Info("player joined room", "room", room.Name, "playerID", player.ID)

	return nil
}

func (that *Server) handleJoinTeam(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleJoinTeam", "connectionID", cl.id)

	var payload JoinTeamPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.rooms.JoinTeam(ctx, cl.id, payload.RoomName, payload.Team)
	if err != nil {
		log.Error("failed to join team", "room", payload.RoomName, "team", payload.Team, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	that.broadcastRoom(room, "room:update")

	log.Info("player joined team", "room", room.Name, "team", payload.Team)

	return nil
}

func (that *Server) handleShuffleTeams(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleShuffleTeams", "connectionID", cl.id)

	var payload RoomNamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.rooms.ShuffleTeams(ctx, cl.id, payload.RoomName)
	if err != nil {
		log.Error("failed to shuffle teams", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	that.broadcastRoom(room, "room:update")

	log.Info("teams shuffled", "room", room.Name)

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleStartGame", "connectionID", cl.id)

	var payload RoomNamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.rooms.StartGame(ctx, cl.id, payload.RoomName)
	if err != nil {
		log.Error("failed to start game", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	that.broadcastRoom(room, "game:started")

	for _, player := range room.Players {
		that.sendHand(player)
	}

	log.Info("game started", "room", room.Name)

	return nil
}

func (that *Server) handleRequestCard(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleRequestCard", "connectionID", cl.id)

	var payload RequestCardPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, err := that.rooms.RequestCard(ctx, cl.id, payload.RoomName, payload.TargetPlayerID, payload.Suit, payload.Rank, payload.SetType)
	if err != nil {
		log.Error("failed to request card", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	that.broadcastActionUpdate(result.Room)

	// A miss only moves the turn, which the action delta already carries. A
	// transfer changes hand counts, so the full room state follows it.
	if result.Transferred {
		if requester := result.Room.PlayerByID(result.RequesterID); requester != nil {
			that.sendHand(requester)
		}
		if target := result.Room.PlayerByID(result.TargetID); target != nil {
			that.sendHand(target)
		}

		that.broadcastRoom(result.Room, "room:update")
	}

	log.Info("card requested", "room", result.Room.Name, "transferred", result.Transferred)

	return nil
}

func (that *Server) handleDeclareSet(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleDeclareSet", "connectionID", cl.id)

	var payload DeclareSetPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.rooms.DeclareSet(ctx, cl.id, payload.RoomName, payload.Suit, payload.SetType)
	if err != nil {
		log.Error("failed to declare set", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	that.broadcastRoom(room, "game:update")

	for _, player := range room.Players {
		that.sendHand(player)
	}

	if room.IsFinished() {
		that.broadcastGameEnd(room)
	}

	log.Info("set declared", "room", room.Name, "suit", payload.Suit, "setType", payload.SetType)

	return nil
}

func (that *Server) handleClaimTurn(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleClaimTurn", "connectionID", cl.id)

	var payload RoomNamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.rooms.ClaimTurn(ctx, cl.id, payload.RoomName)
	if err != nil {
		log.Error("failed to claim turn", "room", payload.RoomName, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	that.broadcastRoom(room, "game:update")
	that.broadcastActionUpdate(room)

	log.Info("turn claimed", "room", room.Name)

	return nil
}

func (that *Server) broadcastGameEnd(room *entity.Room) {
	log := that.logger.With("method", "broadcastGameEnd", "room", room.Name)

	payload := GameEndPayload{
		Winner:  room.Winner,
		Message: room.LastAction,
	}

	for _, player := range room.Players {
		if !player.Connected {
			continue
		}

		cl, ok := that.clientByConnectionID(player.ConnectionID)
		if !ok {
			continue
		}

		if err := that.sendMessage(cl, "game:end", payload); err != nil {
			log.Error("failed to send game end", "playerID", player.ID, "error", err)
		}
	}

	log.Info("game finished", "winner", room.Winner)
}
