package websocket

import (
	"encoding/json"

	"github.com/litcards/lit-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateRoomPayload struct {
	PlayerName  string `json:"player_name"`
	RoomName    string `json:"room_name"`
	PlayerCount int    `json:"player_count"`
}

type JoinRoomPayload struct {
	PlayerName string `json:"player_name"`
	RoomName   string `json:"room_name"`
}

type JoinTeamPayload struct {
	RoomName string `json:"room_name"`
	Team     string `json:"team"`
}

type RoomNamePayload struct {
	RoomName string `json:"room_name"`
}

type RequestCardPayload struct {
	RoomName       string `json:"room_name"`
	TargetPlayerID string `json:"target_player_id"`
	Suit           string `json:"suit"`
	Rank           string `json:"rank"`
	SetType        string `json:"set_type"`
}

type DeclareSetPayload struct {
	RoomName string `json:"room_name"`
	Suit     string `json:"suit"`
	SetType  string `json:"set_type"`
}

type JoinedPayload struct {
	RoomName string    `json:"room_name"`
	PlayerID string    `json:"player_id"`
	Room     *RoomView `json:"room"`
}

type RoomPayload struct {
	Room *RoomView `json:"room"`
}

type HandPayload struct {
	Hand []entity.Card `json:"hand"`
}

type ActionUpdatePayload struct {
	LastAction          string `json:"last_action"`
	CurrentTurnPlayerID string `json:"current_turn_player_id,omitempty"`
}

type GameEndPayload struct {
	Winner  string `json:"winner"`
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// SeatView is a seat as other players may see it: the hand is reduced to a
// count. Full hands travel only in private hand:update messages.
type SeatView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Team         string `json:"team"`
	HandCount    int    `json:"hand_count"`
	Connected    bool   `json:"connected"`
	CanClaimTurn bool   `json:"can_claim_turn"`
}

// RoomView is the full-state room snapshot carried by broadcasts.
type RoomView struct {
	Name                string               `json:"name"`
	Players             []SeatView           `json:"players"`
	CurrentTurnPlayerID string               `json:"current_turn_player_id,omitempty"`
	CapturedSets        []entity.CapturedSet `json:"captured_sets"`
	Status              string               `json:"status"`
	Winner              string               `json:"winner,omitempty"`
	AdminID             string               `json:"admin_id"`
	LastAction          string               `json:"last_action,omitempty"`
	PlayerCount         int                  `json:"player_count"`
}

func NewRoomView(room *entity.Room) *RoomView {
	seats := make([]SeatView, 0, len(room.Players))
	for _, player := range room.Players {
		seats = append(seats, SeatView{
			ID:           player.ID,
			Name:         player.Name,
			Team:         player.Team,
			HandCount:    len(player.Hand),
			Connected:    player.Connected,
			CanClaimTurn: player.CanClaimTurn,
		})
	}

	capturedSets := room.CapturedSets
	if capturedSets == nil {
		capturedSets = []entity.CapturedSet{}
	}

	return &RoomView{
		Name:                room.Name,
		Players:             seats,
		CurrentTurnPlayerID: room.CurrentTurnPlayerID,
		CapturedSets:        capturedSets,
		Status:              room.Status,
		Winner:              room.Winner,
		AdminID:             room.AdminID,
		LastAction:          room.LastAction,
		PlayerCount:         room.PlayerCount,
	}
}
