package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litcards/lit-backend/internal/entity"
)

func TestNewRoomView(t *testing.T) {
	// Given: a playing room where one seat holds cards
	room := entity.NewRoom("R1", 6, entity.NewPlayer("p0", "c0", "Alice"))
	room.Players = append(room.Players, entity.NewPlayer("p1", "c1", "Bob"))
	room.Status = entity.StatusPlaying
	room.CurrentTurnPlayerID = "p0"
	room.Players[0].Hand = []entity.Card{
		{ID: 1, Suit: entity.SuitSpades, Rank: "A", SetType: entity.SetTypeLower},
		{ID: 2, Suit: entity.SuitSpades, Rank: "2", SetType: entity.SetTypeLower},
	}

	// When: the broadcast view is built
	view := NewRoomView(room)

	// Then: hands are reduced to counts, everything else carries over
	require.Len(t, view.Players, 2)
	assert.Equal(t, 2, view.Players[0].HandCount)
	assert.Equal(t, 0, view.Players[1].HandCount)
	assert.Equal(t, "p0", view.CurrentTurnPlayerID)
	assert.Equal(t, room.AdminID, view.AdminID)

	// Then: no card detail survives serialization of the view
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "spades")
	assert.NotContains(t, string(raw), `"rank"`)
}
